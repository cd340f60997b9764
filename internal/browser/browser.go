// Package browser wraps a single headless Chrome session behind a small
// Session interface. The browser only navigates, scrolls, and returns
// rendered DOM snapshots; all field extraction heuristics run host-side
// against the snapshot so they can be tested with fixture HTML.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// UserAgent identifies the scraper to the target site.
	UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

	viewportWidth  = 1366
	viewportHeight = 900

	// NavigationTimeout bounds a single page load.
	NavigationTimeout = 45 * time.Second
)

// Session is the navigation surface the crawler drives. Implementations
// must tolerate per-page failures without killing the whole session.
type Session interface {
	// Navigate loads url, waits for initial DOM content, then settles.
	Navigate(ctx context.Context, url string, settle time.Duration) error
	// Scroll scrolls the page down by pixels and settles, triggering
	// lazy-loaded content.
	Scroll(ctx context.Context, pixels int, settle time.Duration) error
	// HTML returns the rendered DOM of the current page.
	HTML(ctx context.Context) (string, error)
	// Close tears the session down. Safe to call more than once.
	Close()
}

// ChromeSession drives one headless Chrome instance with one page.
type ChromeSession struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewChromeSession launches Chrome and opens the single page used for the
// whole run.
func NewChromeSession(ctx context.Context, headless bool) (*ChromeSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.UserAgent(UserAgent),
		chromedp.WindowSize(viewportWidth, viewportHeight),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so launch failures surface here instead
	// of on the first navigation
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &ChromeSession{
		ctx:         browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// run executes actions under the session's browser context, bounded by
// NavigationTimeout. The caller's ctx cannot parent the browser context,
// so its cancellation is forwarded instead.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, NavigationTimeout)
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

// Navigate loads url and waits for the body plus a settle delay for
// client-side rendering.
func (s *ChromeSession) Navigate(ctx context.Context, url string, settle time.Duration) error {
	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settle),
	)
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Scroll scrolls down by pixels and waits for lazy content to settle.
func (s *ChromeSession) Scroll(ctx context.Context, pixels int, settle time.Duration) error {
	err := s.run(ctx,
		chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", pixels), nil),
		chromedp.Sleep(settle),
	)
	if err != nil {
		return fmt.Errorf("scrolling: %w", err)
	}
	return nil
}

// HTML returns the rendered DOM as a string snapshot.
func (s *ChromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capturing page HTML: %w", err)
	}
	return html, nil
}

// Close releases the page and the browser process.
func (s *ChromeSession) Close() {
	s.cancelCtx()
	s.cancelAlloc()
}
