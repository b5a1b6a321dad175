package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/config"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/metrics"
)

const (
	ScrollStrategyScript = "script"
	ScrollStrategyKeys   = "keys"

	// keysPerScroll is how many Page Down presses make up one scroll attempt.
	keysPerScroll = 5
)

// FeedLoader scrolls the results feed until enough cards are loaded or the
// feed stops growing.
type FeedLoader struct {
	browser   repository.Browser
	selectors *config.Selectors
	cfg       config.FeedConfig
	log       *zap.Logger
	metrics   *metrics.Metrics
	progress  *ProgressTracker
}

func NewFeedLoader(
	browser repository.Browser,
	selectors *config.Selectors,
	cfg config.FeedConfig,
	log *zap.Logger,
	m *metrics.Metrics,
	progress *ProgressTracker,
) *FeedLoader {
	return &FeedLoader{
		browser:   browser,
		selectors: selectors,
		cfg:       cfg,
		log:       log.Named("feed"),
		metrics:   m,
		progress:  progress,
	}
}

// Load scrolls until one of the stop conditions holds. Scroll and count
// failures inside the loop count as stalls; only the initial count is fatal.
func (l *FeedLoader) Load(ctx context.Context, target int) (entity.LoadResult, error) {
	count, err := l.browser.Count(ctx, l.selectors.Card)
	if err != nil {
		return entity.LoadResult{}, fmt.Errorf("failed to count cards: %w", err)
	}
	l.observe(count)

	result := entity.LoadResult{Loaded: count}
	stop := func(reason entity.StopReason) (entity.LoadResult, error) {
		result.Loaded = count
		result.Reason = reason
		l.log.Info("Feed loading stopped",
			zap.String("reason", string(reason)),
			zap.Int("loaded", count),
			zap.Int("target", target),
			zap.Int("attempts", result.Attempts))
		return result, nil
	}

	stalls := 0
	for {
		if count >= target {
			return stop(entity.StopTargetReached)
		}
		if result.Attempts >= l.cfg.MaxAttempts {
			return stop(entity.StopMaxAttempts)
		}
		if ctx.Err() != nil {
			return stop(entity.StopCancelled)
		}

		result.Attempts++
		l.metrics.ScrollAttempts.Inc()
		if err := l.scroll(ctx); err != nil {
			l.log.Debug("Scroll failed", zap.Int("attempt", result.Attempts), zap.Error(err))
		}

		if err := sleep(ctx, l.cfg.ScrollPause); err != nil {
			return stop(entity.StopCancelled)
		}

		if l.endOfList(ctx) {
			if n, err := l.browser.Count(ctx, l.selectors.Card); err == nil {
				count = n
				l.observe(count)
			}
			return stop(entity.StopEndOfList)
		}

		n, err := l.browser.Count(ctx, l.selectors.Card)
		if err != nil {
			l.log.Debug("Card count failed", zap.Int("attempt", result.Attempts), zap.Error(err))
			n = count
		}
		if n > count {
			stalls = 0
		} else {
			stalls++
			l.metrics.ScrollStalls.Inc()
		}
		count = n
		l.observe(count)
		l.log.Debug("Scrolled feed",
			zap.Int("attempt", result.Attempts),
			zap.Int("loaded", count),
			zap.Int("stalls", stalls))

		if stalls >= l.cfg.StallThreshold {
			return stop(entity.StopStalled)
		}
	}
}

func (l *FeedLoader) scroll(ctx context.Context) error {
	if l.cfg.ScrollStrategy == ScrollStrategyKeys {
		for i := 0; i < keysPerScroll; i++ {
			if err := l.browser.PressKey(ctx, l.selectors.Feed, repository.KeyPageDown); err != nil {
				return err
			}
		}
		return nil
	}
	return l.browser.ScrollToBottom(ctx, l.selectors.Feed)
}

func (l *FeedLoader) endOfList(ctx context.Context) bool {
	if l.selectors.EndOfList == "" {
		return false
	}
	text, found, err := l.browser.Text(ctx, l.selectors.EndOfList)
	if err != nil || !found {
		return false
	}
	if l.selectors.EndOfListText == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(l.selectors.EndOfListText))
}

func (l *FeedLoader) observe(count int) {
	l.metrics.LoadedCards.Set(float64(count))
	l.progress.SetLoaded(count)
}
