package entity_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
)

func TestTagOf(t *testing.T) {
	tests := []struct {
		reason string
		want   entity.FailureTag
	}{
		{entity.TagTimeout.Reason("card %d", 3), entity.TagTimeout},
		{"[GIVEUP] click intercepted", entity.TagGiveUp},
		{"[CUSTOM] anything", entity.FailureTag("[CUSTOM]")},
		{"no tag here", "[UNTAGGED]"},
		{"[broken", "[UNTAGGED]"},
	}
	for _, tt := range tests {
		if got := entity.TagOf(tt.reason); got != tt.want {
			t.Errorf("TagOf(%q) = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

func TestFailureRecord(t *testing.T) {
	var r entity.FailureRecord
	if r.LastReason() != "" {
		t.Error("empty record has a last reason")
	}
	r.Add(entity.TagTimeout.Reason("first"))
	r.Add(entity.TagStale.Reason("second"))
	if got := r.LastReason(); got != "[STALE] second" {
		t.Errorf("LastReason() = %q", got)
	}
}

func TestRunSummary(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := &entity.RunSummary{
		Failures:  []entity.FailureRecord{{Position: 2}, {Position: 7}},
		StartedAt: start,
	}
	if diff := cmp.Diff([]int{2, 7}, s.Unscraped()); diff != "" {
		t.Errorf("Unscraped() mismatch (-want +got):\n%s", diff)
	}
	if s.Elapsed() != 0 {
		t.Error("unfinished run has elapsed time")
	}
	s.FinishedAt = start.Add(3 * time.Second)
	if s.Elapsed() != 3*time.Second {
		t.Errorf("Elapsed() = %v", s.Elapsed())
	}
}

func TestListingKey(t *testing.T) {
	a := entity.Listing{Name: "Joe", Address: "1 Main", Phone: "1"}
	b := entity.Listing{Name: "Joe", Address: "1 Main", Phone: "2"}
	c := entity.Listing{Name: "Joe1", Address: " Main"}
	if a.Key() != b.Key() {
		t.Error("same name and address produce different keys")
	}
	if a.Key() == c.Key() {
		t.Error("keys collide across field boundaries")
	}
}
