package usecase

import (
	"sync"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
)

// ProgressReader exposes the current state of a run to observers.
type ProgressReader interface {
	Snapshot() entity.Progress
}

// ProgressTracker is written by the scrape loop and read by observers such as
// the status server and the progress bar.
type ProgressTracker struct {
	mu        sync.RWMutex
	progress  entity.Progress
	observers []func(entity.Progress)
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{progress: entity.Progress{Phase: entity.PhaseStarting}}
}

// Observe registers fn to be called with a snapshot after every update.
// Observers run synchronously on the scrape goroutine and must not block.
func (t *ProgressTracker) Observe(fn func(entity.Progress)) {
	t.mu.Lock()
	t.observers = append(t.observers, fn)
	t.mu.Unlock()
}

func (t *ProgressTracker) Snapshot() entity.Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

func (t *ProgressTracker) Start(query string, target int) {
	t.update(func(p *entity.Progress) {
		*p = entity.Progress{Query: query, Phase: entity.PhaseStarting, Target: target}
	})
}

func (t *ProgressTracker) SetPhase(phase entity.Phase) {
	t.update(func(p *entity.Progress) { p.Phase = phase })
}

func (t *ProgressTracker) SetLoaded(n int) {
	t.update(func(p *entity.Progress) { p.Loaded = n })
}

// CardDone records the outcome of one card.
func (t *ProgressTracker) CardDone(scraped bool) {
	t.update(func(p *entity.Progress) {
		p.Processed++
		if scraped {
			p.Scraped++
		} else {
			p.Failed++
		}
	})
}

func (t *ProgressTracker) Fail(err error) {
	t.update(func(p *entity.Progress) {
		p.Phase = entity.PhaseFailed
		p.Error = err.Error()
	})
}

func (t *ProgressTracker) update(fn func(p *entity.Progress)) {
	t.mu.Lock()
	fn(&t.progress)
	snapshot := t.progress
	observers := t.observers
	t.mu.Unlock()

	for _, observe := range observers {
		observe(snapshot)
	}
}
