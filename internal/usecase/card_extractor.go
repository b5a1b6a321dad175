package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/config"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/metrics"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/utils"
)

// ErrPanelUnchanged means the detail panel kept showing the previous label
// after a card was clicked.
var ErrPanelUnchanged = errors.New("detail panel label did not change")

// panelState is the label shown by the detail panel after the last
// successfully opened card.
type panelState struct {
	LastLabel string
}

// ExtractResult is the outcome of the extraction phase.
type ExtractResult struct {
	Listings  []entity.Listing
	Failures  []entity.FailureRecord
	Attempted int
}

// CardExtractor opens every loaded card in turn and reads its detail panel.
type CardExtractor struct {
	browser   repository.Browser
	parser    repository.PanelParser
	selectors *config.Selectors
	cfg       config.CardConfig
	log       *zap.Logger
	metrics   *metrics.Metrics
	progress  *ProgressTracker
}

func NewCardExtractor(
	browser repository.Browser,
	parser repository.PanelParser,
	selectors *config.Selectors,
	cfg config.CardConfig,
	log *zap.Logger,
	m *metrics.Metrics,
	progress *ProgressTracker,
) *CardExtractor {
	return &CardExtractor{
		browser:   browser,
		parser:    parser,
		selectors: selectors,
		cfg:       cfg,
		log:       log.Named("cards"),
		metrics:   m,
		progress:  progress,
	}
}

// Extract processes positions 0..min(loaded, target)-1 in order. A failed card
// contributes a failure record and no listing; processing always continues
// with the next position until ctx is cancelled.
func (e *CardExtractor) Extract(ctx context.Context, loaded, target int) ExtractResult {
	limit := min(loaded, target)
	result := ExtractResult{Listings: make([]entity.Listing, 0, limit)}
	state := panelState{}

	for i := 0; i < limit; i++ {
		if ctx.Err() != nil {
			e.log.Warn("Extraction cancelled", zap.Int("processed", result.Attempted), zap.Int("planned", limit))
			break
		}
		result.Attempted++

		listing, next, reason := e.processCard(ctx, i, state)
		if reason != "" {
			if ctx.Err() != nil {
				// Cut short by cancellation, not by the card itself.
				result.Attempted--
				break
			}
			tag := entity.TagOf(reason)
			e.log.Warn("Card skipped", zap.Int("position", i), zap.String("reason", reason))
			record := entity.FailureRecord{Position: i}
			record.Add(reason)
			result.Failures = append(result.Failures, record)
			e.metrics.IncCardOutcome("failed")
			e.metrics.IncFailureTag(string(tag))
			e.progress.CardDone(false)
			continue
		}

		state = next
		result.Listings = append(result.Listings, listing)
		e.metrics.IncCardOutcome("scraped")
		e.countFields(listing)
		e.progress.CardDone(true)
		e.log.Debug("Card scraped", zap.Int("position", i), zap.String("name", listing.Name))
	}
	return result
}

// processCard returns either a listing with the new panel state, or a tagged
// failure reason.
func (e *CardExtractor) processCard(ctx context.Context, i int, state panelState) (entity.Listing, panelState, string) {
	if err := e.browser.ScrollIntoViewNth(ctx, e.selectors.Card, i); err != nil {
		if errors.Is(err, repository.ErrIndexOutOfRange) {
			return entity.Listing{}, state, entity.TagStale.Reason("card %d no longer in feed: %v", i, err)
		}
		e.log.Debug("Scroll into view failed", zap.Int("position", i), zap.Error(err))
	}

	started := time.Now()
	label, err := Retry(ctx, e.cfg.OpenAttempts, func(ctx context.Context, attempt int) (string, error) {
		return e.openCard(ctx, i, state)
	})
	e.metrics.CardOpenDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return entity.Listing{}, state, openFailureReason(i, err)
	}

	listing, err := e.readPanel(ctx, label)
	if err != nil {
		return entity.Listing{}, state, entity.TagError.Reason("card %d: %T: %v", i, err, err)
	}
	return listing, panelState{LastLabel: label}, ""
}

// openCard double-clicks the card and waits for the panel label to move away
// from the previous one.
func (e *CardExtractor) openCard(ctx context.Context, i int, state panelState) (string, error) {
	if err := e.browser.ClickNth(ctx, e.selectors.Card, i); err != nil {
		return "", fmt.Errorf("click: %w", err)
	}
	if err := sleep(ctx, e.cfg.ClickGap); err != nil {
		return "", err
	}
	if err := e.browser.ClickNth(ctx, e.selectors.Card, i); err != nil {
		return "", fmt.Errorf("second click: %w", err)
	}
	return e.waitLabelChange(ctx, state.LastLabel)
}

func (e *CardExtractor) waitLabelChange(ctx context.Context, previous string) (string, error) {
	deadline := time.Now().Add(e.cfg.OpenTimeout)
	for {
		text, found, err := e.browser.Text(ctx, e.selectors.PanelLabel)
		if err == nil && found {
			if label := utils.CleanText(text); label != "" && label != previous {
				return label, nil
			}
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w: still %q after %v", ErrPanelUnchanged, previous, e.cfg.OpenTimeout)
		}
		if err := sleep(ctx, e.cfg.PollInterval); err != nil {
			return "", err
		}
	}
}

// readPanel snapshots the panel once and reads each field from that snapshot.
func (e *CardExtractor) readPanel(ctx context.Context, label string) (entity.Listing, error) {
	html, _, err := e.browser.OuterHTML(ctx, e.selectors.Panel)
	if err != nil {
		return entity.Listing{}, fmt.Errorf("failed to snapshot panel: %w", err)
	}
	listing, err := e.parser.Parse(html)
	if err != nil {
		return entity.Listing{}, err
	}
	if listing.Name == "" {
		listing.Name = label
	}
	return listing, nil
}

func (e *CardExtractor) countFields(l entity.Listing) {
	for field, value := range map[string]string{
		"name":    l.Name,
		"address": l.Address,
		"phone":   l.Phone,
		"website": l.Website,
	} {
		if value != "" {
			e.metrics.IncFieldCaptured(field)
		}
	}
}

func openFailureReason(i int, err error) string {
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		return entity.TagError.Reason("card %d: %T: %v", i, err, err)
	}
	switch {
	case errors.Is(exhausted.Last, ErrPanelUnchanged):
		return entity.TagTimeout.Reason("card %d: panel not updated after %d attempts: %v", i, exhausted.Attempts, exhausted.Last)
	case errors.Is(exhausted.Last, repository.ErrIndexOutOfRange):
		return entity.TagStale.Reason("card %d no longer in feed: %v", i, exhausted.Last)
	default:
		return entity.TagGiveUp.Reason("card %d: %v", i, exhausted)
	}
}
