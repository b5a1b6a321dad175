package entity

import (
	"fmt"
	"strings"
)

// FailureTag classifies why a card could not be scraped.
type FailureTag string

const (
	TagTimeout FailureTag = "[TIMEOUT]" // panel label never changed after clicking
	TagGiveUp  FailureTag = "[GIVEUP]"  // open attempts exhausted for another reason
	TagStale   FailureTag = "[STALE]"   // card position vanished from the feed
	TagError   FailureTag = "[ERROR]"   // unexpected error while processing the card
)

// Reason formats a tagged diagnostic line.
func (t FailureTag) Reason(format string, args ...any) string {
	return string(t) + " " + fmt.Sprintf(format, args...)
}

// TagOf returns the bracketed prefix of a reason, or "[UNTAGGED]" if it has none.
func TagOf(reason string) FailureTag {
	if strings.HasPrefix(reason, "[") {
		if end := strings.Index(reason, "]"); end > 0 {
			return FailureTag(reason[:end+1])
		}
	}
	return "[UNTAGGED]"
}

// FailureRecord collects the diagnostics for one card position.
// It lives in memory for the end-of-run summary and is never persisted.
type FailureRecord struct {
	Position int
	Reasons  []string
}

// Add appends a tagged reason.
func (r *FailureRecord) Add(reason string) {
	r.Reasons = append(r.Reasons, reason)
}

// LastReason returns the most recent reason, or "" if none was recorded.
func (r *FailureRecord) LastReason() string {
	if len(r.Reasons) == 0 {
		return ""
	}
	return r.Reasons[len(r.Reasons)-1]
}
