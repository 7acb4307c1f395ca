package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/deck-builder/internal/types"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n- Item 2\n* Item 3"
	result := CleanText(input)

	assert.Contains(t, result, "- Item 1")
	assert.Contains(t, result, "- Item 2")
	assert.Contains(t, result, "* Item 3")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Line    with    multiple    spaces"
	result := CleanText(input)

	assert.Contains(t, result, "Line with multiple spaces")
	assert.NotContains(t, result, "    ") // Should not have 4 spaces
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	result := CleanText(input)

	// Should have max 2 consecutive newlines
	assert.NotContains(t, result, "\n\n\n\n")
	// But should preserve up to 2
	assert.Contains(t, result, "\n\n")
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	// All should be normalized to LF
	assert.NotContains(t, result, "\r\n")
	assert.NotContains(t, result, "\r")
	assert.Contains(t, result, "\n")
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	result1 := CleanText(input)
	result2 := CleanText(input)

	// Same input should produce identical output
	assert.Equal(t, result1, result2)
}

func TestCleanText_EmptyInput(t *testing.T) {
	result := CleanText("")
	assert.Empty(t, result)
}

func TestCleanText_OnlyWhitespace(t *testing.T) {
	result := CleanText("   \n  \n  ")
	assert.Empty(t, result)
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Test with émojis 🚀 and spéciàl chàracters"
	result := CleanText(input)

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestCleanText_PreserveIndentation(t *testing.T) {
	input := "    Indented line\n  Less indented"
	result := CleanText(input)

	// Should preserve relative indentation
	assert.Contains(t, result, "Indented")
	assert.Contains(t, result, "Less indented")
}

func TestCleanText_NFC(t *testing.T) {
	decomposed := "Cafe\u0301 menu"
	assert.Equal(t, "Caf\u00e9 menu", CleanText(decomposed))
}

func TestCleanText_IndentedBullets(t *testing.T) {
	input := "- Top\n    - Nested   item"
	assert.Equal(t, "- Top\n    - Nested item", CleanText(input))
}

func TestCleanParagraph(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "collapses spaces", input: "  a   b\u00a0\u00a0c  ", expected: "a b c"},
		{name: "keeps tabs", input: "Name\tValue", expected: "Name\tValue"},
		{name: "keeps breaks and drops empty lines", input: "line one\r\n\r\nline two", expected: "line one\nline two"},
		{name: "whitespace only", input: " \t \n ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanParagraph(tt.input))
		})
	}
}

func TestParseText(t *testing.T) {
	input := "Quarterly Review\n\nSome intro text\nthat wraps.\n\n# Results\n- Revenue up\n- Costs down\n\n## Outlook\nSteady."

	doc := parseText(input)

	assert.Equal(t, "Quarterly Review", doc.Title)
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, types.Section{Paragraphs: []string{"Some intro text that wraps."}}, doc.Sections[0])
	assert.Equal(t, types.Section{Heading: "Results", Level: 1, Paragraphs: []string{"Revenue up", "Costs down"}}, doc.Sections[1])
	assert.Equal(t, types.Section{Heading: "Outlook", Level: 2, Paragraphs: []string{"Steady."}}, doc.Sections[2])
}

func TestParseText_HeadingFirst(t *testing.T) {
	doc := parseText("# Plan\nStep one.")

	assert.Equal(t, "Plan", doc.Title)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Plan", doc.Sections[0].Heading)
	assert.Equal(t, []string{"Step one."}, doc.Sections[0].Paragraphs)
}
