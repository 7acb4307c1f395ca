package ingestion

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/deck-builder/internal/fetch"
	"github.com/jonathan/deck-builder/internal/types"
)

// URLOptions configures ExtractURL
type URLOptions struct {
	Fetch      *fetch.Options
	UseBrowser bool
	Logger     *zap.Logger
}

// ExtractURL fetches an HTML page and extracts its structure. With UseBrowser set, pages
// whose HTTP copy carries too little text are rendered in a headless browser first.
func ExtractURL(ctx context.Context, url string, opts URLOptions) (*types.Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	html, err := fetch.FetchHTML(ctx, url, opts.Fetch, opts.UseBrowser, logger)
	if err != nil {
		return nil, &ExtractionError{Source: url, Format: FormatHTML, Message: "failed to fetch page", Cause: err}
	}
	logger.Debug("fetched page", zap.String("url", url), zap.Int("bytes", len(html)))

	return ExtractBytes([]byte(html), FormatHTML, url)
}
