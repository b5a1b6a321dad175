package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrElementNotFound is returned when a selector matches nothing.
	ErrElementNotFound = errors.New("element not found")
	// ErrIndexOutOfRange is returned when a positional lookup exceeds the current match count.
	ErrIndexOutOfRange = errors.New("element index out of range")
)

// Key is a keyboard key understood by every browser engine.
type Key string

const KeyPageDown Key = "PageDown"

// LaunchOptions configures a browser session.
type LaunchOptions struct {
	Headless      bool
	ExecPath      string // browser binary; empty means the engine's default lookup
	UserAgent     string
	DisableImages bool
	WindowWidth   int
	WindowHeight  int
}

// Browser defines the contract for driving a single browser page.
//
// Element handles never escape an implementation: every positional method
// re-queries the page, so a handle cannot outlive a page-mutating action.
type Browser interface {
	// Navigate loads a URL in the page.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector matches a visible element or the timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Count returns how many elements currently match the selector.
	Count(ctx context.Context, selector string) (int, error)
	// Text returns the text content of the first match. Absence is reported
	// through the boolean, not as an error.
	Text(ctx context.Context, selector string) (string, bool, error)
	// OuterHTML returns the markup of the first match, with the same absence rule as Text.
	OuterHTML(ctx context.Context, selector string) (string, bool, error)
	// ClickNth clicks the element at index among the current matches.
	ClickNth(ctx context.Context, selector string, index int) error
	// ScrollIntoViewNth scrolls the element at index into the viewport.
	ScrollIntoViewNth(ctx context.Context, selector string, index int) error
	// ScrollToBottom scrolls a scrollable container to its end.
	ScrollToBottom(ctx context.Context, selector string) error
	// PressKey focuses the first match and presses a key on it.
	PressKey(ctx context.Context, selector string, key Key) error
	// Close tears the session down.
	Close() error
}

// LaunchFunc starts a browser session. Each engine adapter provides one.
type LaunchFunc func(ctx context.Context, opts LaunchOptions) (Browser, error)
