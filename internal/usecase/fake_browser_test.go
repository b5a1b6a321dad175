package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/config"
)

// fakeCard is one result in the fake feed.
type fakeCard struct {
	name, address, phone, website string
	ignoreClicks int   // clicks that leave the panel untouched
	clickErr     error // returned by every click on this card
}

// fakeBrowser simulates a map-search page: a feed that grows on scroll and a
// detail panel that follows the last clicked card.
type fakeBrowser struct {
	sel   *config.Selectors
	cards []fakeCard

	loaded  int   // cards currently in the feed
	growth  int   // cards appended per scroll action
	plan    []int // per-action growth overriding growth; actions past the end add nothing
	showEnd bool
	noFeed  bool

	shrinkAfterOpens int // once this many distinct cards have opened, the feed shrinks to shrinkTo
	shrinkTo         int

	open      int
	opened    map[int]bool
	clicks    map[int]int
	scrolls   int
	keys      int
	navigated string
	closed    bool
}

func newFakeBrowser(sel *config.Selectors, cards []fakeCard, loaded int) *fakeBrowser {
	return &fakeBrowser{
		sel:    sel,
		cards:  cards,
		loaded: loaded,
		open:   -1,
		opened: make(map[int]bool),
		clicks: make(map[int]int),
	}
}

func (f *fakeBrowser) launch(ctx context.Context, opts repository.LaunchOptions) (repository.Browser, error) {
	return f, nil
}

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	f.navigated = url
	return nil
}

func (f *fakeBrowser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if selector == f.sel.Feed && f.noFeed {
		return fmt.Errorf("waiting for %s: %w", selector, context.DeadlineExceeded)
	}
	return nil
}

func (f *fakeBrowser) Count(ctx context.Context, selector string) (int, error) {
	if selector == f.sel.Card {
		return f.loaded, nil
	}
	return 0, nil
}

func (f *fakeBrowser) Text(ctx context.Context, selector string) (string, bool, error) {
	switch selector {
	case f.sel.PanelLabel:
		if f.open < 0 {
			return "", false, nil
		}
		return f.cards[f.open].name, true, nil
	case f.sel.EndOfList:
		if f.showEnd && f.loaded == len(f.cards) {
			return "You've reached the end of the list.", true, nil
		}
	}
	return "", false, nil
}

func (f *fakeBrowser) OuterHTML(ctx context.Context, selector string) (string, bool, error) {
	if selector != f.sel.Panel || f.open < 0 {
		return "", false, nil
	}
	c := f.cards[f.open]
	var b strings.Builder
	b.WriteString(`<div role="main">`)
	fmt.Fprintf(&b, `<h1 class="DUwDvf">%s</h1>`, html.EscapeString(c.name))
	if c.address != "" {
		fmt.Fprintf(&b, `<button data-item-id="address"><div class="Io6YTe">%s</div></button>`, html.EscapeString(c.address))
	}
	if c.website != "" {
		fmt.Fprintf(&b, `<a data-item-id="authority" href="%s">site</a>`, html.EscapeString(c.website))
	}
	if c.phone != "" {
		fmt.Fprintf(&b, `<button data-item-id="phone:tel:1"><div class="Io6YTe">%s</div></button>`, html.EscapeString(c.phone))
	}
	b.WriteString(`</div>`)
	return b.String(), true, nil
}

func (f *fakeBrowser) ClickNth(ctx context.Context, selector string, index int) error {
	if selector != f.sel.Card {
		return repository.ErrElementNotFound
	}
	if index >= f.loaded {
		return fmt.Errorf("%s[%d]: %w", selector, index, repository.ErrIndexOutOfRange)
	}
	c := f.cards[index]
	if c.clickErr != nil {
		return c.clickErr
	}
	f.clicks[index]++
	if f.clicks[index] <= c.ignoreClicks {
		return nil
	}
	f.open = index
	f.opened[index] = true
	if f.shrinkAfterOpens > 0 && len(f.opened) >= f.shrinkAfterOpens {
		f.loaded = f.shrinkTo
	}
	return nil
}

func (f *fakeBrowser) ScrollIntoViewNth(ctx context.Context, selector string, index int) error {
	if index >= f.loaded {
		return fmt.Errorf("%s[%d]: %w", selector, index, repository.ErrIndexOutOfRange)
	}
	return nil
}

func (f *fakeBrowser) ScrollToBottom(ctx context.Context, selector string) error {
	f.scrolls++
	f.grow()
	return nil
}

func (f *fakeBrowser) PressKey(ctx context.Context, selector string, key repository.Key) error {
	if key != repository.KeyPageDown {
		return errors.New("unexpected key")
	}
	f.keys++
	f.grow()
	return nil
}

func (f *fakeBrowser) Close() error {
	f.closed = true
	return nil
}

func (f *fakeBrowser) grow() {
	g := f.growth
	if f.plan != nil {
		g = 0
		if action := f.scrolls + f.keys - 1; action < len(f.plan) {
			g = f.plan[action]
		}
	}
	f.loaded = min(f.loaded+g, len(f.cards))
}

// fakeWriter records what it was asked to write.
type fakeWriter struct {
	path     string
	listings []entity.Listing
	calls    int
	err      error
}

func (w *fakeWriter) Write(ctx context.Context, path string, listings []entity.Listing) error {
	w.calls++
	w.path = path
	w.listings = append([]entity.Listing(nil), listings...)
	return w.err
}

func namedCards(names ...string) []fakeCard {
	cards := make([]fakeCard, len(names))
	for i, n := range names {
		cards[i] = fakeCard{
			name:    n,
			address: fmt.Sprintf("%d Main St", i+1),
			phone:   fmt.Sprintf("555-01%02d", i),
			website: fmt.Sprintf("https://%s.example/", strings.ToLower(n)),
		}
	}
	return cards
}
