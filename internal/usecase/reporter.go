package usecase

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
)

// RunStats are the aggregates printed at the end of a run.
type RunStats struct {
	Listings    int
	WithPhone   int
	WithWebsite int
	Duplicates  int
	TagCounts   map[entity.FailureTag]int
}

// Summarize computes the end-of-run aggregates.
func Summarize(s *entity.RunSummary) RunStats {
	stats := RunStats{
		Listings:  len(s.Listings),
		TagCounts: make(map[entity.FailureTag]int),
	}

	seen := make(map[string]bool, len(s.Listings))
	for _, l := range s.Listings {
		if l.HasPhone() {
			stats.WithPhone++
		}
		if l.HasWebsite() {
			stats.WithWebsite++
		}
		if seen[l.Key()] {
			stats.Duplicates++
		}
		seen[l.Key()] = true
	}

	for _, f := range s.Failures {
		for _, reason := range f.Reasons {
			stats.TagCounts[entity.TagOf(reason)]++
		}
	}
	return stats
}

// Reporter prints the plain-text run summary.
type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) Report(s *entity.RunSummary) {
	stats := Summarize(s)
	w := r.out

	fmt.Fprintln(w, "==== Scrape summary ====")
	fmt.Fprintf(w, "Query:            %s\n", s.Query)
	if s.Load.Reason == "" {
		fmt.Fprintln(w, "Feed:             not loaded")
	} else {
		fmt.Fprintf(w, "Feed:             %d loaded in %d scrolls (%s)\n", s.Load.Loaded, s.Load.Attempts, s.Load.Reason)
	}
	fmt.Fprintf(w, "Listings:         %d of %d attempted (target %d)\n", stats.Listings, s.Attempted, s.Target)
	fmt.Fprintf(w, "With phone:       %d\n", stats.WithPhone)
	fmt.Fprintf(w, "With website:     %d\n", stats.WithWebsite)
	if stats.Duplicates > 0 {
		fmt.Fprintf(w, "Duplicates:       %d (same name and address, kept)\n", stats.Duplicates)
	}
	if s.OutputPath != "" {
		fmt.Fprintf(w, "Output:           %s\n", s.OutputPath)
	}
	fmt.Fprintf(w, "Elapsed:          %s\n", s.Elapsed().Round(time.Millisecond))

	if len(stats.TagCounts) == 0 {
		return
	}

	tags := make([]string, 0, len(stats.TagCounts))
	for tag := range stats.TagCounts {
		tags = append(tags, string(tag))
	}
	sort.Strings(tags)

	fmt.Fprintln(w, "Failures by tag:")
	for _, tag := range tags {
		fmt.Fprintf(w, "  %-10s %d\n", tag, stats.TagCounts[entity.FailureTag(tag)])
	}
	fmt.Fprintf(w, "Unscraped cards:  %d\n", len(s.Unscraped()))
	for _, f := range s.Failures {
		fmt.Fprintf(w, "  #%d %s\n", f.Position, f.LastReason())
	}
}
