// Package rod renders JavaScript-heavy documentation pages in headless Chrome.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/cdpchat"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements cdpchat.Fetcher at compile time.
var _ cdpchat.Fetcher = (*Fetcher)(nil)

// Fetcher returns pages as the browser sees them after scripts have run.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets how long a page may take to load and settle.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns EUNAVAILABLE if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	f.launcher = launcher.New().Headless(true)
	u, err := f.launcher.Launch()
	if err != nil {
		return nil, cdpchat.Errorf(cdpchat.EUNAVAILABLE, "launching browser: %v", err)
	}

	f.browser = rod.New().ControlURL(u)
	if err := f.browser.Connect(); err != nil {
		f.launcher.Kill()
		return nil, cdpchat.Errorf(cdpchat.EUNAVAILABLE, "connecting to browser: %v", err)
	}
	return f, nil
}

// Fetch opens url in a new tab, waits for the page to load and for the DOM
// to settle, and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", cdpchat.Errorf(cdpchat.EUNAVAILABLE, "opening tab: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.timeout)

	if err := page.Navigate(url); err != nil {
		return "", f.failure(ctx, "navigating to "+url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", f.failure(ctx, "loading "+url, err)
	}
	// Single-page doc sites keep rendering after load.
	_ = page.WaitDOMStable(300*time.Millisecond, 0.01)

	html, err := page.HTML()
	if err != nil {
		return "", f.failure(ctx, "reading "+url, err)
	}
	return html, nil
}

func (f *Fetcher) failure(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return cdpchat.Errorf(cdpchat.EUNAVAILABLE, "%s: %v", op, err)
}

// Close shuts down the browser and the process that launched it.
func (f *Fetcher) Close() error {
	err := f.browser.Close()
	f.launcher.Kill()
	return err
}
