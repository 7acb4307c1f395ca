// Package types provides type definitions for structured data used throughout the deck builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Document is the heading/paragraph tree extracted from a source document
type Document struct {
	Title    string           `json:"title"`
	Source   string           `json:"source"`
	Format   string           `json:"format"`
	Sections []Section        `json:"sections"`
	Metadata DocumentMetadata `json:"metadata"`
}

// Section is a heading followed by the paragraphs under it.
// Text that precedes the first heading is kept in a section with an empty heading.
type Section struct {
	Heading    string   `json:"heading,omitempty"`
	Level      int      `json:"level"`
	Paragraphs []string `json:"paragraphs,omitempty"`
}

// DocumentMetadata describes extracted content
type DocumentMetadata struct {
	Hash         string `json:"hash"`
	WordCount    int    `json:"word_count"`
	SectionCount int    `json:"section_count"`
}
