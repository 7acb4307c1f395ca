// Package ingestion extracts the heading and paragraph structure of source documents.
package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/deck-builder/internal/types"
)

// Format identifies a source document format
type Format string

// Supported source formats
const (
	FormatDocx     Format = "docx"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
)

var extensionFormats = map[string]Format{
	".docx":     FormatDocx,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".txt":      FormatText,
	".text":     FormatText,
}

// DetectFormat maps a file path to its source format by extension
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensionFormats[ext]
	if !ok {
		return "", &UnsupportedFormatError{Path: path, Extension: ext}
	}
	return format, nil
}

// Extract reads the document at path and returns its structure
func Extract(path string) (*types.Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		msg := "failed to read file"
		if errors.Is(err, os.ErrNotExist) {
			msg = "file not found"
		}
		return nil, &ExtractionError{Source: path, Format: format, Message: msg, Cause: err}
	}

	return ExtractBytes(data, format, path)
}

// ExtractBytes extracts a document of the given format from memory. source is recorded on
// the document and used in error messages.
func ExtractBytes(data []byte, format Format, source string) (*types.Document, error) {
	var (
		doc *types.Document
		err error
	)
	switch format {
	case FormatDocx:
		doc, err = parseDocx(data)
	case FormatMarkdown:
		doc, err = parseMarkdown(data)
	case FormatHTML:
		doc, err = parseHTML(data)
	case FormatText:
		doc = parseText(string(data))
	default:
		return nil, &UnsupportedFormatError{Path: source, Extension: string(format)}
	}
	if err != nil {
		return nil, &ExtractionError{Source: source, Format: format, Message: "malformed document", Cause: err}
	}

	if len(doc.Sections) == 0 {
		return nil, &ExtractionError{Source: source, Format: format, Message: "document has no text content"}
	}

	doc.Source = source
	doc.Format = string(format)
	doc.Metadata = computeMetadata(doc)
	return doc, nil
}
