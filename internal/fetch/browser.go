package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the minimum extracted text length for a plain HTTP fetch to count.
// Shorter pages are probably rendered by JavaScript.
const MinContentLength = 500

// DefaultBrowserTimeout bounds a headless render
const DefaultBrowserTimeout = 30 * time.Second

// ShouldUseBrowser reports whether extracted text is too short to be the real page.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Render loads a page in headless Chrome and returns the rendered HTML.
// Chrome or Chromium must be installed.
func Render(ctx context.Context, url string, timeout time.Duration, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	logger.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// client-side rendering
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	logger.Debug("rendered page", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}

// FetchHTML fetches url over HTTP and, when useBrowser is set and the page text is too
// short, renders it in a headless browser instead. A failed render keeps the HTTP copy.
func FetchHTML(ctx context.Context, url string, opts *Options, useBrowser bool, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result, err := URL(ctx, url, opts)
	if err != nil {
		return "", err
	}

	if !useBrowser {
		return result.HTML, nil
	}

	text, err := ExtractMainText(result.HTML, DefaultTextSelectors())
	if err != nil {
		return "", fmt.Errorf("failed to inspect fetched page: %w", err)
	}
	if !ShouldUseBrowser(text) {
		return result.HTML, nil
	}

	logger.Info("page text too short, rendering in browser",
		zap.String("url", url),
		zap.Int("chars", len(text)),
		zap.Int("min_chars", MinContentLength))

	rendered, err := Render(ctx, url, DefaultBrowserTimeout, logger)
	if err != nil {
		logger.Warn("browser rendering failed, using HTTP content", zap.Error(err))
		return result.HTML, nil
	}
	return rendered, nil
}
