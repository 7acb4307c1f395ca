package ingestion

import "github.com/jonathan/deck-builder/internal/types"

// documentBuilder collects headings and paragraphs in reading order into sections
type documentBuilder struct {
	title    string
	sections []types.Section
}

func (b *documentBuilder) setTitle(title string) {
	if b.title == "" {
		b.title = CleanParagraph(title)
	}
}

func (b *documentBuilder) heading(text string, level int) {
	text = CleanParagraph(text)
	if text == "" {
		return
	}
	if level < 1 {
		level = 1
	}
	b.sections = append(b.sections, types.Section{Heading: text, Level: level})
}

func (b *documentBuilder) paragraph(text string) {
	text = CleanParagraph(text)
	if text == "" {
		return
	}
	if len(b.sections) == 0 {
		b.sections = append(b.sections, types.Section{})
	}
	last := &b.sections[len(b.sections)-1]
	last.Paragraphs = append(last.Paragraphs, text)
}

// build returns the document. Without an explicit title the first heading is used.
func (b *documentBuilder) build() *types.Document {
	title := b.title
	if title == "" {
		for _, s := range b.sections {
			if s.Heading != "" {
				title = s.Heading
				break
			}
		}
	}
	return &types.Document{Title: title, Sections: b.sections}
}
