package rod_browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
)

// clickTimeout bounds rod's wait for a card to become interactable.
const clickTimeout = 5 * time.Second

type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	log      *zap.Logger
}

// NewLauncher returns a launch function that starts Chrome through go-rod.
func NewLauncher(log *zap.Logger) repository.LaunchFunc {
	return func(ctx context.Context, opts repository.LaunchOptions) (repository.Browser, error) {
		return Launch(ctx, opts, log)
	}
}

// Launch starts a browser with a single blank page.
func Launch(ctx context.Context, opts repository.LaunchOptions, log *zap.Logger) (repository.Browser, error) {
	l := newLauncher(opts).Context(ctx)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	log.Info("Browser started", zap.String("engine", "rod"), zap.Bool("headless", opts.Headless))
	return &rodBrowser{launcher: l, browser: browser, page: page, log: log}, nil
}

func newLauncher(opts repository.LaunchOptions) *launcher.Launcher {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", opts.WindowWidth, opts.WindowHeight))
	}
	if opts.UserAgent != "" {
		l = l.Set("user-agent", opts.UserAgent)
	}
	if opts.ExecPath != "" {
		l = l.Bin(opts.ExecPath)
	}
	if opts.DisableImages {
		l = l.Set("blink-settings", "imagesEnabled=false")
	}
	return l
}

func (b *rodBrowser) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (b *rodBrowser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	page := b.page.Context(ctx).Timeout(timeout)
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}

func (b *rodBrowser) Count(ctx context.Context, selector string) (int, error) {
	els, err := b.page.Context(ctx).Elements(selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

func (b *rodBrowser) Text(ctx context.Context, selector string) (string, bool, error) {
	return b.first(ctx, selector, "innerText")
}

func (b *rodBrowser) OuterHTML(ctx context.Context, selector string) (string, bool, error) {
	return b.first(ctx, selector, "outerHTML")
}

type firstMatch struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

// first reads a property of the first match without waiting for it to appear.
func (b *rodBrowser) first(ctx context.Context, selector, property string) (string, bool, error) {
	res, err := b.page.Context(ctx).Eval(`(selector, property) => {
		const el = document.querySelector(selector);
		return JSON.stringify(el ? {found: true, value: el[property] || ""} : {found: false, value: ""});
	}`, selector, property)
	if err != nil {
		return "", false, err
	}
	var m firstMatch
	if err := json.Unmarshal([]byte(res.Value.Str()), &m); err != nil {
		return "", false, fmt.Errorf("failed to decode lookup of %s: %w", selector, err)
	}
	return m.Value, m.Found, nil
}

// nth re-queries the selector and returns the element at index.
func (b *rodBrowser) nth(ctx context.Context, selector string, index int) (*rod.Element, error) {
	els, err := b.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(els) {
		return nil, fmt.Errorf("%s[%d] of %d: %w", selector, index, len(els), repository.ErrIndexOutOfRange)
	}
	return els[index], nil
}

func (b *rodBrowser) ClickNth(ctx context.Context, selector string, index int) error {
	el, err := b.nth(ctx, selector, index)
	if err != nil {
		return err
	}
	return el.Timeout(clickTimeout).Click(proto.InputMouseButtonLeft, 1)
}

func (b *rodBrowser) ScrollIntoViewNth(ctx context.Context, selector string, index int) error {
	el, err := b.nth(ctx, selector, index)
	if err != nil {
		return err
	}
	return el.ScrollIntoView()
}

func (b *rodBrowser) ScrollToBottom(ctx context.Context, selector string) error {
	el, err := b.nth(ctx, selector, 0)
	if err != nil {
		return fmt.Errorf("%s: %w", selector, repository.ErrElementNotFound)
	}
	_, err = el.Eval(`() => { this.scrollTop = this.scrollHeight }`)
	return err
}

func (b *rodBrowser) PressKey(ctx context.Context, selector string, key repository.Key) error {
	code, err := keyFor(key)
	if err != nil {
		return err
	}
	el, err := b.nth(ctx, selector, 0)
	if err != nil {
		return fmt.Errorf("%s: %w", selector, repository.ErrElementNotFound)
	}
	if err := el.Focus(); err != nil {
		return err
	}
	return b.page.Context(ctx).Keyboard.Press(code)
}

func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

func keyFor(key repository.Key) (input.Key, error) {
	switch key {
	case repository.KeyPageDown:
		return input.PageDown, nil
	}
	return 0, fmt.Errorf("unsupported key %q", key)
}
