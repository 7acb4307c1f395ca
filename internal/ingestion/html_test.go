package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/deck-builder/internal/types"
)

func TestParseHTML(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><title>Release Notes</title></head>
<body>
<nav>Home | Docs</nav>
<main>
  <h1>Version 2.0</h1>
  <p>Big   release.</p>
  <h2>Features</h2>
  <ul>
    <li>Faster sync
      <ul><li>Up to 3x</li></ul>
    </li>
    <li><p>Dark mode</p></li>
  </ul>
  <blockquote><p>Best release yet.</p></blockquote>
</main>
<footer>Copyright</footer>
</body>
</html>`

	doc, err := parseHTML([]byte(page))
	require.NoError(t, err)

	assert.Equal(t, "Release Notes", doc.Title)
	assert.Equal(t, []types.Section{
		{Heading: "Version 2.0", Level: 1, Paragraphs: []string{"Big release."}},
		{Heading: "Features", Level: 2, Paragraphs: []string{"Faster sync", "Up to 3x", "Dark mode", "Best release yet."}},
	}, doc.Sections)
}

func TestParseHTML_TitleFromHeading(t *testing.T) {
	doc, err := parseHTML([]byte(`<html><body><article><h1>Only Heading</h1><p>Text.</p></article></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Only Heading", doc.Title)
}

func TestParseHTML_NoBlockMarkup(t *testing.T) {
	doc, err := parseHTML([]byte("<html><body><div>First line</div>\n<div>Second line</div></body></html>"))
	require.NoError(t, err)

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, []string{"First line", "Second line"}, doc.Sections[0].Paragraphs)
}
