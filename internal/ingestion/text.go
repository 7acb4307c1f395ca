package ingestion

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/deck-builder/internal/types"
)

var (
	spaceRun      = regexp.MustCompile(`[ \x{00a0}\x{2007}\x{202f}]+`)
	blankLineRun  = regexp.MustCompile(`\n\n\n+`)
	bulletPrefix  = regexp.MustCompile(`^([-*+•·]|\d+[.)])\s+`)
	headingPrefix = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
)

// CleanText normalizes a whole plain-text document: LF line endings, NFC, trailing
// whitespace removed, runs of spaces collapsed and at most one blank line in a row.
// Markdown headings and list markers survive.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = norm.NFC.String(normalizeNewlines(content))

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLineRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// CleanParagraph normalizes one paragraph of extracted text. Tabs and explicit line
// breaks are kept; empty lines are dropped.
func CleanParagraph(text string) string {
	text = norm.NFC.String(normalizeNewlines(text))

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Trim(spaceRun.ReplaceAllString(line, " "), " ")
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// cleanLine keeps the indentation of list items and collapses spaces everywhere else
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	content := spaceRun.ReplaceAllString(trimmed, " ")
	if bulletPrefix.MatchString(trimmed) {
		if indent := len(line) - len(trimmed); indent > 0 {
			return strings.Repeat(" ", indent) + content
		}
	}
	return content
}

// parseText reads plain text. The first line is the title; lines starting with #
// are headings; blank lines separate paragraphs and every list item is a paragraph.
func parseText(content string) *types.Document {
	var b documentBuilder

	blocks := strings.Split(CleanText(content), "\n\n")
	for bi, block := range blocks {
		lines := strings.Split(block, "\n")

		if bi == 0 && len(lines) > 0 {
			if m := headingPrefix.FindStringSubmatch(lines[0]); m != nil {
				b.setTitle(m[2])
			} else {
				b.setTitle(lines[0])
				if len(lines) == 1 {
					continue
				}
			}
		}

		var para []string
		flush := func() {
			if len(para) > 0 {
				b.paragraph(strings.Join(para, " "))
				para = nil
			}
		}
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			switch {
			case headingPrefix.MatchString(trimmed):
				flush()
				m := headingPrefix.FindStringSubmatch(trimmed)
				b.heading(m[2], len(m[1]))
			case bulletPrefix.MatchString(trimmed):
				flush()
				b.paragraph(bulletPrefix.ReplaceAllString(trimmed, ""))
			default:
				para = append(para, trimmed)
			}
		}
		flush()
	}

	return b.build()
}
