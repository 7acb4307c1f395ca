package ingestion

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/deck-builder/internal/fetch"
	"github.com/jonathan/deck-builder/internal/types"
)

const (
	htmlBlockSelector     = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, td, th, dt, dd, figcaption"
	htmlContainerSelector = "h1, h2, h3, h4, h5, h6, p, pre, blockquote, table, ul, ol, dl"
)

// parseHTML reads the main content of a page. The title comes from <title>, otherwise
// from the first h1.
func parseHTML(data []byte) (*types.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var b documentBuilder
	b.setTitle(strings.TrimSpace(doc.Find("head title").First().Text()))

	main := fetch.MainContent(doc, fetch.DefaultTextSelectors())
	main.Find(htmlBlockSelector).Each(func(_ int, el *goquery.Selection) {
		name := goquery.NodeName(el)
		switch name {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(name[1] - '0')
			if level == 1 {
				b.setTitle(el.Text())
			}
			b.heading(el.Text(), level)
		case "li":
			if el.Find("p, pre, blockquote, table").Length() > 0 {
				return
			}
			// nested lists are visited on their own
			b.paragraph(el.Clone().Find("ul, ol").Remove().End().Text())
		case "pre":
			b.paragraph(el.Text())
		default:
			if el.Find(htmlContainerSelector).Length() > 0 {
				return
			}
			b.paragraph(el.Text())
		}
	})

	// pages without block markup
	if len(b.sections) == 0 {
		if text := fetch.ExtractTextLines(main); text != "" {
			for _, line := range strings.Split(text, "\n") {
				b.paragraph(line)
			}
		}
	}

	return b.build(), nil
}
