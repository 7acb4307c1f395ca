// Package builders creates test fixtures: presentation templates and outlines.
package builders

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Placeholder is a layout placeholder; an Idx of zero is written without the idx attribute
type Placeholder struct {
	Type string
	Idx  int
	Name string
}

// Layout is one slide layout of a template
type Layout struct {
	Name         string
	Placeholders []Placeholder
}

// TemplateBuilder builds minimal .pptx templates
type TemplateBuilder struct {
	theme       string
	layouts     []Layout
	notesMaster bool
}

// NewTemplateBuilder returns a builder for a template with a title layout and a
// title-and-content layout
func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{
		theme: "Test Theme",
		layouts: []Layout{
			{Name: "Title Slide", Placeholders: []Placeholder{
				{Type: "ctrTitle", Name: "Title 1"},
				{Type: "subTitle", Idx: 1, Name: "Subtitle 2"},
			}},
			{Name: "Title and Content", Placeholders: []Placeholder{
				{Type: "title", Name: "Title 1"},
				{Idx: 1, Name: "Content Placeholder 2"},
				{Type: "dt", Idx: 10, Name: "Date Placeholder 3"},
			}},
		},
	}
}

// WithTheme sets the theme name
func (b *TemplateBuilder) WithTheme(name string) *TemplateBuilder {
	b.theme = name
	return b
}

// WithLayouts replaces the layouts
func (b *TemplateBuilder) WithLayouts(layouts ...Layout) *TemplateBuilder {
	b.layouts = layouts
	return b
}

// WithNotesMaster adds a notes master to the package
func (b *TemplateBuilder) WithNotesMaster() *TemplateBuilder {
	b.notesMaster = true
	return b
}

const (
	nsP   = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	nsRel = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	hdr   = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// Bytes returns the zipped package
func (b *TemplateBuilder) Bytes(t testing.TB) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	var overrides strings.Builder
	override := func(part, contentType string) {
		fmt.Fprintf(&overrides, `<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.%s"/>`, part, contentType)
	}
	override("ppt/presentation.xml", "presentationml.presentation.main+xml")
	override("ppt/slideMasters/slideMaster1.xml", "presentationml.slideMaster+xml")
	override("ppt/theme/theme1.xml", "theme+xml")
	for i := range b.layouts {
		override(fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), "presentationml.slideLayout+xml")
	}
	if b.notesMaster {
		override("ppt/notesMasters/notesMaster1.xml", "presentationml.notesMaster+xml")
	}

	write("[Content_Types].xml", hdr+`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+overrides.String()+`</Types>`)

	write("_rels/.rels", hdr+rels(rel("rId1", "officeDocument", "ppt/presentation.xml")))

	notesList := ""
	presRels := []string{
		rel("rId1", "slideMaster", "slideMasters/slideMaster1.xml"),
		rel("rId2", "theme", "theme/theme1.xml"),
	}
	if b.notesMaster {
		notesList = `<p:notesMasterIdLst><p:notesMasterId r:id="rId3"/></p:notesMasterIdLst>`
		presRels = append(presRels, rel("rId3", "notesMaster", "notesMasters/notesMaster1.xml"))
	}
	write("ppt/presentation.xml", hdr+`<p:presentation `+nsP+`>`+
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+notesList+
		`<p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`)
	write("ppt/_rels/presentation.xml.rels", hdr+rels(presRels...))

	var layoutIDs strings.Builder
	masterRels := make([]string, 0, len(b.layouts)+1)
	for i, layout := range b.layouts {
		rid := fmt.Sprintf("rId%d", i+1)
		fmt.Fprintf(&layoutIDs, `<p:sldLayoutId id="%d" r:id="%s"/>`, 2147483649+i, rid)
		masterRels = append(masterRels, rel(rid, "slideLayout", fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1)))

		part := fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1)
		write(part, hdr+layoutXML(layout))
		write(fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1),
			hdr+rels(rel("rId1", "slideMaster", "../slideMasters/slideMaster1.xml")))
	}
	masterRels = append(masterRels, rel(fmt.Sprintf("rId%d", len(b.layouts)+1), "theme", "../theme/theme1.xml"))

	write("ppt/slideMasters/slideMaster1.xml", hdr+`<p:sldMaster `+nsP+`><p:cSld><p:spTree/></p:cSld>`+
		`<p:sldLayoutIdLst>`+layoutIDs.String()+`</p:sldLayoutIdLst></p:sldMaster>`)
	write("ppt/slideMasters/_rels/slideMaster1.xml.rels", hdr+rels(masterRels...))

	write("ppt/theme/theme1.xml", hdr+`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="`+b.theme+`"/>`)

	if b.notesMaster {
		write("ppt/notesMasters/notesMaster1.xml", hdr+`<p:notesMaster `+nsP+`><p:cSld><p:spTree/></p:cSld></p:notesMaster>`)
		write("ppt/notesMasters/_rels/notesMaster1.xml.rels", hdr+rels(rel("rId1", "theme", "../theme/theme1.xml")))
	}

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// WriteFile writes the template into dir and returns its path
func (b *TemplateBuilder) WriteFile(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "template.pptx")
	require.NoError(t, os.WriteFile(path, b.Bytes(t), 0644))
	return path
}

func rel(id, relType, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s/%s" Target="%s"/>`, id, nsRel, relType, target)
}

func rels(entries ...string) string {
	return `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		strings.Join(entries, "") + `</Relationships>`
}

func layoutXML(layout Layout) string {
	var shapes strings.Builder
	for i, ph := range layout.Placeholders {
		attrs := ""
		if ph.Type != "" {
			attrs += fmt.Sprintf(` type="%s"`, ph.Type)
		}
		if ph.Idx > 0 {
			attrs += fmt.Sprintf(` idx="%d"`, ph.Idx)
		}
		fmt.Fprintf(&shapes, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr><p:ph%s/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>`,
			i+2, ph.Name, attrs)
	}
	return `<p:sldLayout ` + nsP + `><p:cSld name="` + layout.Name + `"><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes.String() + `</p:spTree></p:cSld></p:sldLayout>`
}
