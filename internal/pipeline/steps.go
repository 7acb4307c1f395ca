package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/deck-builder/internal/ingestion"
	"github.com/jonathan/deck-builder/internal/rendering"
	"github.com/jonathan/deck-builder/internal/templates"
	"github.com/jonathan/deck-builder/internal/types"
)

// ExtractDocument reads a local document or fetches a web page
func ExtractDocument(ctx context.Context, input string, useBrowser bool, logger *zap.Logger) (*types.Document, error) {
	if IsURL(input) {
		return ingestion.ExtractURL(ctx, input, ingestion.URLOptions{UseBrowser: useBrowser, Logger: logger})
	}
	return ingestion.Extract(input)
}

// LoadCatalog returns the catalog for a template or catalog file; an empty path
// selects the built-in Office layouts.
func LoadCatalog(path string) (*types.LayoutCatalog, error) {
	if path == "" {
		return templates.DefaultCatalog(), nil
	}
	return templates.Load(path)
}

// IsTemplatePackage reports whether path is a presentation the deck can be written into
func IsTemplatePackage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pptx", ".potx":
		return true
	}
	return false
}

// WriteOptions configures WriteDeck
type WriteOptions struct {
	TemplatePath string
	OutputPath   string
	JSONPath     string
	ImageDir     string
	Logger       *zap.Logger
}

// WriteDeck writes the deck into a copy of the template and, when asked, as JSON.
// Without a .pptx template only JSON can be written; it goes to JSONPath or next to
// OutputPath. Returns the paths written.
func WriteDeck(deck *types.Deck, catalog *types.LayoutCatalog, opts WriteOptions) (string, string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var pptxPath string
	jsonPath := opts.JSONPath

	if IsTemplatePackage(opts.TemplatePath) && opts.OutputPath != "" {
		err := rendering.WritePPTX(opts.TemplatePath, deck, opts.OutputPath, rendering.PPTXOptions{
			Catalog:  catalog,
			ImageDir: opts.ImageDir,
			Logger:   logger,
		})
		if err != nil {
			return "", "", err
		}
		pptxPath = opts.OutputPath
		logger.Info("wrote presentation", zap.String("path", pptxPath), zap.Int("slides", len(deck.Slides)))
	} else if jsonPath == "" {
		if opts.OutputPath == "" {
			return "", "", fmt.Errorf("no output path")
		}
		jsonPath = strings.TrimSuffix(opts.OutputPath, filepath.Ext(opts.OutputPath)) + ".json"
		logger.Warn("no .pptx template given, writing the deck as JSON only", zap.String("path", jsonPath))
	}

	if jsonPath != "" {
		if err := rendering.WriteJSONFile(jsonPath, deck); err != nil {
			return "", "", err
		}
	}
	return pptxPath, jsonPath, nil
}
