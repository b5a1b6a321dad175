package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/adapter/chromedp_browser"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/adapter/csvfile"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/adapter/goquery_parser"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/adapter/rod_browser"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/adapter/xlsxfile"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/delivery/http/handler"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/delivery/http/router"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/delivery/http/server"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/usecase"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/config"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/logger"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/metrics"
)

var engines = map[string]func(*zap.Logger) repository.LaunchFunc{
	"chromedp": chromedp_browser.NewLauncher,
	"rod":      rod_browser.NewLauncher,
}

func run(parent context.Context, opts *cliOptions, overrides map[string]any) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Configuration ---
	cfg, err := config.Load(opts.configPath, overrides)
	if err != nil {
		return err
	}
	selectors, err := config.LoadSelectors(cfg.Selectors.File)
	if err != nil {
		return err
	}

	// --- Logger ---
	log, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	progress := usecase.NewProgressTracker()

	// --- Status server ---
	if cfg.Status.Addr != "" {
		h := handler.NewHandler(progress, log)
		srv := server.New(cfg.Status.Addr, router.New(h, log, m, reg), log)
		if _, err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("Status server shutdown failed", zap.Error(err))
			}
		}()
	}

	if cfg.Log.Format == "console" {
		progress.Observe(newProgressBar())
	}

	// --- Use case ---
	newLauncher, ok := engines[cfg.Browser.Engine]
	if !ok {
		return fmt.Errorf("unknown browser engine %q", cfg.Browser.Engine)
	}
	base, err := url.Parse(cfg.Search.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid search base url: %w", err)
	}

	scraper := usecase.NewScraperUseCase(
		newLauncher(log),
		goquery_parser.NewPanelParser(selectors.Fields, base),
		usecase.WriterSet{
			Default: csvfile.NewListingWriter(),
			ByExtension: map[string]repository.ListingWriter{
				".xlsx": xlsxfile.NewListingWriter(),
			},
		},
		selectors,
		usecase.ScraperOptions{
			Search: cfg.Search,
			Feed:   cfg.Feed,
			Card:   cfg.Card,
			Launch: repository.LaunchOptions{
				Headless:      cfg.Browser.Headless,
				ExecPath:      cfg.Browser.DriverPath,
				UserAgent:     cfg.Browser.UserAgent,
				DisableImages: cfg.Browser.DisableImages,
				WindowWidth:   cfg.Browser.WindowWidth,
				WindowHeight:  cfg.Browser.WindowHeight,
			},
		},
		log,
		m,
		progress,
		usecase.NewReporter(os.Stdout),
	)

	summary, err := scraper.Scrape(ctx, usecase.ScrapeRequest{
		Category:   opts.category,
		Location:   opts.location,
		Target:     opts.target,
		OutputPath: opts.outputPath,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Scrape interrupted before results were collected")
		} else {
			log.Error("Scrape failed", zap.Error(err))
		}
		return err
	}
	if ctx.Err() != nil {
		log.Warn("Scrape interrupted, partial results written",
			zap.Int("listings", len(summary.Listings)),
			zap.String("path", summary.OutputPath))
	}
	return nil
}

// newProgressBar returns an observer drawing extraction progress on stderr.
func newProgressBar() func(entity.Progress) {
	var bar *progressbar.ProgressBar
	return func(p entity.Progress) {
		switch p.Phase {
		case entity.PhaseExtracting:
			if bar == nil {
				bar = progressbar.NewOptions(min(p.Loaded, p.Target),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("Extracting listings"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(p.Processed)
		case entity.PhaseWriting, entity.PhaseDone, entity.PhaseFailed:
			if bar != nil {
				_ = bar.Finish()
				bar = nil
			}
		}
	}
}
