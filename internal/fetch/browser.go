package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Browser-backed fetch for deployments where the planning table is only
// materialized by the site's scripts. Navigates the page in headless
// Chromium, waits for the main table to exist, and returns the rendered
// DOM serialized back to HTML.

const (
	// browserTableSelector is what we wait for before serializing; it must
	// match the navigator's main-table lookup.
	browserTableSelector = "table#tableau"

	defaultBrowserTimeout = 45 * time.Second
)

// BrowserOptions defines parameters for a Chromium-based page fetch.
type BrowserOptions struct {
	// URL of the planning page.
	URL string

	// SessionCookie, if set, is injected as a document.cookie assignment
	// before navigation so the site recognizes the operator session.
	SessionCookie string

	// UserAgent overrides the browser's default agent string.
	UserAgent string

	// Timeout bounds the entire fetch. If zero, defaultBrowserTimeout is
	// used.
	Timeout time.Duration
}

// FetchRendered launches a headless Chromium instance via chromedp,
// navigates to opts.URL, waits until the planning table exists in the DOM,
// and returns the document's outer HTML.
func FetchRendered(parentCtx context.Context, opts BrowserOptions) (Result, error) {
	if opts.URL == "" {
		return Result{}, fmt.Errorf("browser fetch: URL is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultBrowserTimeout
	}

	allocOpts := chromedp.DefaultExecAllocatorOptions[:]
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, allocOpts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var rendered string
	tasks := chromedp.Tasks{
		chromedp.Navigate(opts.URL),
	}
	if opts.SessionCookie != "" {
		// Re-navigate after setting the cookie so the session applies to
		// the page that actually renders the table.
		tasks = append(tasks,
			chromedp.Evaluate(fmt.Sprintf("document.cookie = %q", opts.SessionCookie), nil),
			chromedp.Navigate(opts.URL),
		)
	}
	tasks = append(tasks,
		chromedp.WaitReady(browserTableSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	)

	if err := chromedp.Run(ctx, tasks); err != nil {
		return Result{}, fmt.Errorf("browser fetch: chromedp run failed: %w", err)
	}

	return Result{
		URL:       opts.URL,
		Body:      []byte(rendered),
		FetchedAt: time.Now().UTC(),
	}, nil
}
