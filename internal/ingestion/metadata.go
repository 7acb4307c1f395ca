package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jonathan/deck-builder/internal/types"
)

// computeMetadata hashes the extracted text, so two sources with the same structure and
// wording share a hash regardless of file format.
func computeMetadata(doc *types.Document) types.DocumentMetadata {
	var sb strings.Builder
	words := len(strings.Fields(doc.Title))
	sb.WriteString(doc.Title)
	for _, s := range doc.Sections {
		sb.WriteString("\n")
		sb.WriteString(s.Heading)
		words += len(strings.Fields(s.Heading))
		for _, p := range s.Paragraphs {
			sb.WriteString("\n")
			sb.WriteString(p)
			words += len(strings.Fields(p))
		}
	}

	return types.DocumentMetadata{
		Hash:         computeHash(sb.String()),
		WordCount:    words,
		SectionCount: len(doc.Sections),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
