package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/deck-builder/internal/types"
)

const (
	docxDocumentPart = "word/document.xml"
	docxStylesPart   = "word/styles.xml"
	docxCorePart     = "docProps/core.xml"
)

var headingStyleName = regexp.MustCompile(`^heading\s*(\d)$`)

// docxStyle is what matters about a paragraph style: whether it is the title or a heading
type docxStyle struct {
	title bool
	level int
}

type docxParagraph struct {
	style   string
	outline int
	text    strings.Builder
}

// parseDocx reads the body of a WordprocessingML package. Headings are paragraphs whose
// style is named "Heading N" (or carries an outline level); the first "Title" paragraph
// near the top is the document title.
func parseDocx(data []byte) (*types.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a docx package: %w", err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	docPart, ok := parts[docxDocumentPart]
	if !ok {
		return nil, fmt.Errorf("missing %s", docxDocumentPart)
	}

	styles := map[string]docxStyle{}
	if f, ok := parts[docxStylesPart]; ok {
		if styles, err = readDocxStyles(f); err != nil {
			return nil, err
		}
	}

	paragraphs, err := readDocxParagraphs(docPart)
	if err != nil {
		return nil, err
	}

	var b documentBuilder
	for i, p := range paragraphs {
		text := p.text.String()
		if strings.TrimSpace(text) == "" {
			continue
		}

		style := styles[p.style]
		level := style.level
		if level == 0 && p.outline > 0 {
			level = p.outline
		}

		switch {
		case style.title:
			b.setTitle(text)
		case level > 0:
			if level == 1 && i < 3 {
				b.setTitle(text)
			}
			b.heading(text, level)
		default:
			b.paragraph(text)
		}
	}

	if f, ok := parts[docxCorePart]; ok && b.title == "" {
		if title, err := readCoreTitle(f); err == nil {
			b.setTitle(title)
		}
	}

	doc := b.build()
	if doc.Title == "" {
		doc.Title = firstParagraph(paragraphs)
	}
	return doc, nil
}

func readDocxStyles(f *zip.File) (map[string]docxStyle, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	var doc struct {
		Styles []struct {
			ID   string `xml:"styleId,attr"`
			Name struct {
				Val string `xml:"val,attr"`
			} `xml:"name"`
			PPr struct {
				OutlineLvl *struct {
					Val string `xml:"val,attr"`
				} `xml:"outlineLvl"`
			} `xml:"pPr"`
		} `xml:"style"`
	}
	if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.Name, err)
	}

	styles := make(map[string]docxStyle, len(doc.Styles))
	for _, s := range doc.Styles {
		name := strings.ToLower(strings.TrimSpace(s.Name.Val))
		var style docxStyle
		switch {
		case name == "title":
			style.title = true
		case headingStyleName.MatchString(name):
			style.level, _ = strconv.Atoi(headingStyleName.FindStringSubmatch(name)[1])
		case s.PPr.OutlineLvl != nil:
			if lvl, err := strconv.Atoi(s.PPr.OutlineLvl.Val); err == nil && lvl < 9 {
				style.level = lvl + 1
			}
		}
		styles[s.ID] = style
	}
	return styles, nil
}

// readDocxParagraphs streams document.xml and returns its paragraphs in order,
// including those inside tables. Tabs and breaks inside a run are kept.
func readDocxParagraphs(f *zip.File) ([]*docxParagraph, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	dec := xml.NewDecoder(rc)
	var (
		paragraphs []*docxParagraph
		stack      []*docxParagraph
	)
	current := func() *docxParagraph {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.Name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p := current()
			switch t.Name.Local {
			case "p":
				stack = append(stack, &docxParagraph{})
			case "pStyle":
				if p != nil {
					p.style = attrValue(t, "val")
				}
			case "outlineLvl":
				if p != nil {
					if lvl, err := strconv.Atoi(attrValue(t, "val")); err == nil && lvl < 9 {
						p.outline = lvl + 1
					}
				}
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return nil, fmt.Errorf("failed to parse %s: %w", f.Name, err)
				}
				if p != nil {
					p.text.WriteString(text)
				}
			case "tab":
				if p != nil {
					p.text.WriteString("\t")
				}
			case "br", "cr":
				if p != nil {
					p.text.WriteString("\n")
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" && len(stack) > 0 {
				paragraphs = append(paragraphs, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
		}
	}
	return paragraphs, nil
}

func readCoreTitle(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	var core struct {
		Title string `xml:"title"`
	}
	if err := xml.NewDecoder(rc).Decode(&core); err != nil {
		return "", err
	}
	return strings.TrimSpace(core.Title), nil
}

func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func firstParagraph(paragraphs []*docxParagraph) string {
	for i, p := range paragraphs {
		if i >= 5 {
			break
		}
		if text := CleanParagraph(p.text.String()); text != "" {
			return text
		}
	}
	return ""
}
