package entity

import "time"

// StopReason explains why the feed loader stopped scrolling.
type StopReason string

const (
	StopTargetReached StopReason = "target_reached"
	StopEndOfList     StopReason = "end_of_list"
	StopStalled       StopReason = "stalled"
	StopMaxAttempts   StopReason = "max_attempts"
	StopCancelled     StopReason = "cancelled"
)

// LoadResult is the outcome of the feed loading phase.
type LoadResult struct {
	Loaded   int
	Attempts int
	Reason   StopReason
}

// RunSummary mirrors everything a single invocation produced.
type RunSummary struct {
	Query      string
	SearchURL  string
	OutputPath string
	Target     int
	Load       LoadResult
	Attempted  int
	Listings   []Listing
	Failures   []FailureRecord
	StartedAt  time.Time
	FinishedAt time.Time
}

// Unscraped returns the positions that produced no listing.
func (s *RunSummary) Unscraped() []int {
	positions := make([]int, 0, len(s.Failures))
	for _, f := range s.Failures {
		positions = append(positions, f.Position)
	}
	return positions
}

// Elapsed is the wall-clock duration of the run.
func (s *RunSummary) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
