package chromedp_browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
)

type chromedpBrowser struct {
	ctx         context.Context // tab context; every action runs in a child of it
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	log         *zap.Logger
}

// NewLauncher returns a launch function that starts Chrome through chromedp.
func NewLauncher(log *zap.Logger) repository.LaunchFunc {
	return func(ctx context.Context, opts repository.LaunchOptions) (repository.Browser, error) {
		return Launch(ctx, opts, log)
	}
}

// Launch starts a browser with a single tab.
func Launch(ctx context.Context, opts repository.LaunchOptions, log *zap.Logger) (repository.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)

	sugar := log.Named("chromedp").Sugar()
	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)

	b := &chromedpBrowser{ctx: tabCtx, cancel: cancel, allocCancel: allocCancel, log: log}
	// The first Run allocates the browser and binds its lifetime to the
	// context it is given, so it must be the tab context itself.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}
	log.Info("Browser started", zap.String("engine", "chromedp"), zap.Bool("headless", opts.Headless))
	return b, nil
}

func allocatorOptions(opts repository.LaunchOptions) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.DisableImages {
		allocOpts = append(allocOpts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}
	return allocOpts
}

// run executes actions on the tab, aborting when ctx is done. Cancelling the
// child context does not close the tab.
func (b *chromedpBrowser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (b *chromedpBrowser) Navigate(ctx context.Context, url string) error {
	return b.run(ctx, chromedp.Navigate(url))
}

func (b *chromedpBrowser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := b.run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}

func (b *chromedpBrowser) Count(ctx context.Context, selector string) (int, error) {
	var n int
	if err := b.run(ctx, chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll(%s).length`, jsString(selector)), &n)); err != nil {
		return 0, err
	}
	return n, nil
}

// firstMatch is what the lookup scripts report for the first element of a selector.
type firstMatch struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

func (b *chromedpBrowser) Text(ctx context.Context, selector string) (string, bool, error) {
	return b.first(ctx, selector, "innerText")
}

func (b *chromedpBrowser) OuterHTML(ctx context.Context, selector string) (string, bool, error) {
	return b.first(ctx, selector, "outerHTML")
}

func (b *chromedpBrowser) first(ctx context.Context, selector, property string) (string, bool, error) {
	var m firstMatch
	if err := b.run(ctx, chromedp.Evaluate(firstMatchScript(selector, property), &m)); err != nil {
		return "", false, err
	}
	return m.Value, m.Found, nil
}

func firstMatchScript(selector, property string) string {
	return fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		return el ? {found: true, value: el.%s || ""} : {found: false, value: ""};
	})()`, jsString(selector), property)
}

// nth re-queries the selector and returns the node at index.
func (b *chromedpBrowser) nth(ctx context.Context, selector string, index int) (*cdp.Node, error) {
	var nodes []*cdp.Node
	if err := b.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(nodes) {
		return nil, fmt.Errorf("%s[%d] of %d: %w", selector, index, len(nodes), repository.ErrIndexOutOfRange)
	}
	return nodes[index], nil
}

func (b *chromedpBrowser) ClickNth(ctx context.Context, selector string, index int) error {
	node, err := b.nth(ctx, selector, index)
	if err != nil {
		return err
	}
	return b.run(ctx, chromedp.MouseClickNode(node))
}

func (b *chromedpBrowser) ScrollIntoViewNth(ctx context.Context, selector string, index int) error {
	node, err := b.nth(ctx, selector, index)
	if err != nil {
		return err
	}
	return b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return dom.ScrollIntoViewIfNeeded().WithNodeID(node.NodeID).Do(ctx)
	}))
}

func (b *chromedpBrowser) ScrollToBottom(ctx context.Context, selector string) error {
	var found bool
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		el.scrollTop = el.scrollHeight;
		return true;
	})()`, jsString(selector))
	if err := b.run(ctx, chromedp.Evaluate(script, &found)); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s: %w", selector, repository.ErrElementNotFound)
	}
	return nil
}

func (b *chromedpBrowser) PressKey(ctx context.Context, selector string, key repository.Key) error {
	code, err := keyFor(key)
	if err != nil {
		return err
	}
	var found bool
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		el.focus();
		return true;
	})()`, jsString(selector))
	if err := b.run(ctx, chromedp.Evaluate(script, &found)); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s: %w", selector, repository.ErrElementNotFound)
	}
	return b.run(ctx, chromedp.KeyEvent(code))
}

func (b *chromedpBrowser) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancel()
	b.allocCancel()
	if err != nil {
		return fmt.Errorf("failed to close chrome: %w", err)
	}
	return nil
}

func keyFor(key repository.Key) (string, error) {
	switch key {
	case repository.KeyPageDown:
		return kb.PageDown, nil
	}
	return "", fmt.Errorf("unsupported key %q", key)
}

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted)
}
