package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/config"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/metrics"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/utils"
)

const (
	DefaultTarget     = 100
	DefaultOutputPath = "output/leads.csv"
)

var (
	ErrInvalidRequest = errors.New("invalid scrape request")
	ErrFeedNotFound   = errors.New("results feed not found")
)

// ScrapeRequest is one search to run.
type ScrapeRequest struct {
	Category   string
	Location   string
	Target     int
	DriverPath string // browser binary; overrides the configured one when set
	OutputPath string
}

func (r ScrapeRequest) withDefaults() ScrapeRequest {
	r.Category = strings.TrimSpace(r.Category)
	r.Location = strings.TrimSpace(r.Location)
	if r.Target == 0 {
		r.Target = DefaultTarget
	}
	if r.OutputPath == "" {
		r.OutputPath = DefaultOutputPath
	}
	return r
}

func (r ScrapeRequest) validate() error {
	switch {
	case r.Category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidRequest)
	case r.Location == "":
		return fmt.Errorf("%w: location is required", ErrInvalidRequest)
	case r.Target < 0:
		return fmt.Errorf("%w: target must be positive, got %d", ErrInvalidRequest, r.Target)
	}
	return nil
}

// ScraperOptions carries the tunables of a run.
type ScraperOptions struct {
	Search config.SearchConfig
	Feed   config.FeedConfig
	Card   config.CardConfig
	Launch repository.LaunchOptions
}

// WriterSet picks an output writer by file extension.
type WriterSet struct {
	Default     repository.ListingWriter
	ByExtension map[string]repository.ListingWriter // keys include the dot, e.g. ".xlsx"
}

func (w WriterSet) For(path string) repository.ListingWriter {
	if writer, ok := w.ByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return writer
	}
	return w.Default
}

// Scraper defines the interface for running a search end to end.
type Scraper interface {
	Scrape(ctx context.Context, req ScrapeRequest) (*entity.RunSummary, error)
}

type scraperUseCase struct {
	launch    repository.LaunchFunc
	parser    repository.PanelParser
	writers   WriterSet
	selectors *config.Selectors
	opts      ScraperOptions
	log       *zap.Logger
	metrics   *metrics.Metrics
	progress  *ProgressTracker
	reporter  *Reporter
}

// NewScraperUseCase creates a new instance of the scraper use case.
func NewScraperUseCase(
	launch repository.LaunchFunc,
	parser repository.PanelParser,
	writers WriterSet,
	selectors *config.Selectors,
	opts ScraperOptions,
	log *zap.Logger,
	m *metrics.Metrics,
	progress *ProgressTracker,
	reporter *Reporter,
) Scraper {
	return &scraperUseCase{
		launch:    launch,
		parser:    parser,
		writers:   writers,
		selectors: selectors,
		opts:      opts,
		log:       log,
		metrics:   m,
		progress:  progress,
		reporter:  reporter,
	}
}

// Scrape launches a browser, loads the results feed, extracts every card and
// writes the listings. Once the feed has been found, a cancelled context still
// yields a written file and a printed summary for whatever was collected.
func (uc *scraperUseCase) Scrape(ctx context.Context, req ScrapeRequest) (*entity.RunSummary, error) {
	req = req.withDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}

	searchURL, err := utils.BuildSearchURL(uc.opts.Search.BaseURL, req.Category, req.Location)
	if err != nil {
		return nil, err
	}

	summary := &entity.RunSummary{
		Query:      fmt.Sprintf("%s in %s", req.Category, req.Location),
		SearchURL:  searchURL,
		OutputPath: req.OutputPath,
		Target:     req.Target,
		StartedAt:  time.Now(),
	}
	uc.progress.Start(summary.Query, req.Target)
	log := uc.log.With(zap.String("query", summary.Query))

	launchOpts := uc.opts.Launch
	if req.DriverPath != "" {
		launchOpts.ExecPath = req.DriverPath
	}
	browser, err := uc.launch(ctx, launchOpts)
	if err != nil {
		return uc.abort(summary, fmt.Errorf("failed to launch browser: %w", err))
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Warn("Failed to close browser", zap.Error(err))
		}
	}()

	log.Info("Opening search", zap.String("url", searchURL))
	if err := browser.Navigate(ctx, searchURL); err != nil {
		return uc.abort(summary, fmt.Errorf("failed to open search page: %w", err))
	}
	uc.dismissConsent(ctx, browser, log)

	if err := browser.WaitVisible(ctx, uc.selectors.Feed, uc.opts.Search.FeedTimeout); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return uc.abort(summary, ctxErr)
		}
		return uc.abort(summary, fmt.Errorf("%w (%s): %w", ErrFeedNotFound, uc.selectors.Feed, err))
	}
	if err := sleep(ctx, uc.opts.Search.SettleDelay); err != nil {
		// The loader reports the cancellation as its stop reason.
		log.Debug("Settle delay interrupted", zap.Error(err))
	}

	uc.progress.SetPhase(entity.PhaseLoading)
	loader := NewFeedLoader(browser, uc.selectors, uc.opts.Feed, log, uc.metrics, uc.progress)
	summary.Load, err = loader.Load(ctx, req.Target)
	if err != nil {
		return uc.abort(summary, err)
	}

	uc.progress.SetPhase(entity.PhaseExtracting)
	extractor := NewCardExtractor(browser, uc.parser, uc.selectors, uc.opts.Card, log, uc.metrics, uc.progress)
	extracted := extractor.Extract(ctx, summary.Load.Loaded, req.Target)
	summary.Listings = extracted.Listings
	summary.Failures = extracted.Failures
	summary.Attempted = extracted.Attempted

	uc.progress.SetPhase(entity.PhaseWriting)
	writeErr := uc.writers.For(req.OutputPath).Write(context.WithoutCancel(ctx), req.OutputPath, summary.Listings)
	if writeErr != nil {
		writeErr = fmt.Errorf("failed to write listings to %s: %w", req.OutputPath, writeErr)
		summary.OutputPath = ""
	} else {
		log.Info("Listings written", zap.String("path", req.OutputPath), zap.Int("count", len(summary.Listings)))
	}

	summary.FinishedAt = time.Now()
	uc.reporter.Report(summary)

	if writeErr != nil {
		uc.progress.Fail(writeErr)
		return summary, writeErr
	}
	uc.progress.SetPhase(entity.PhaseDone)
	return summary, nil
}

// dismissConsent clicks through a cookie consent interstitial if one is shown.
// Any failure is ignored.
func (uc *scraperUseCase) dismissConsent(ctx context.Context, browser repository.Browser, log *zap.Logger) {
	if uc.selectors.ConsentButton == "" {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, uc.opts.Search.ConsentTimeout)
	defer cancel()

	n, err := browser.Count(cctx, uc.selectors.ConsentButton)
	if err != nil || n == 0 {
		return
	}
	if err := browser.ClickNth(cctx, uc.selectors.ConsentButton, 0); err != nil {
		log.Debug("Consent dismissal failed", zap.Error(err))
		return
	}
	log.Info("Dismissed consent prompt")
}

// abort ends a run that failed before any card was read. The summary is still
// printed so the console always closes with one.
func (uc *scraperUseCase) abort(summary *entity.RunSummary, err error) (*entity.RunSummary, error) {
	summary.OutputPath = ""
	summary.FinishedAt = time.Now()
	uc.reporter.Report(summary)
	uc.progress.Fail(err)
	return summary, err
}
