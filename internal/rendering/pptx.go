package rendering

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/deck-builder/internal/templates"
	"github.com/jonathan/deck-builder/internal/types"
)

const contentTypesPart = "[Content_Types].xml"

const (
	ctSlide      = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctNotesSlide = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
	ctPresMain   = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctTmplMain   = "application/vnd.openxmlformats-officedocument.presentationml.template.main+xml"
	nsRelsURI    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// imageContentTypes lists the raster formats embedded as pictures
var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

var (
	slidePartRe  = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	notesPartRe  = regexp.MustCompile(`^ppt/notesSlides/notesSlide(\d+)\.xml$`)
	mediaPartRe  = regexp.MustCompile(`^ppt/media/image(\d+)\.\w+$`)
	sldIDRe      = regexp.MustCompile(`<(?:\w+:)?sldId\b[^>]*?\sid="(\d+)"`)
	rootPrefixRe = regexp.MustCompile(`<(?:(\w+):)?presentation[\s>]`)
	relsPrefixRe = regexp.MustCompile(`xmlns:(\w+)="` + regexp.QuoteMeta(nsRelsURI) + `"`)
)

// PPTXOptions configures the .pptx writer
type PPTXOptions struct {
	// Catalog is the catalog the deck was assembled against. Its layout parts take
	// precedence over matching template layouts by name.
	Catalog *types.LayoutCatalog
	// ImageDir resolves relative image paths
	ImageDir string
	Logger   *zap.Logger
}

// WritePPTX renders deck into a copy of the template at templatePath and writes it to outPath
func WritePPTX(templatePath string, deck *types.Deck, outPath string, opts PPTXOptions) error {
	pkg, err := templates.OpenPackage(templatePath)
	if err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to open template %s", templatePath), Cause: err}
	}

	data, err := RenderPPTX(pkg, deck, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &RenderError{Message: "failed to create output directory", Cause: err}
		}
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to write %s", outPath), Cause: err}
	}
	return nil
}

// RenderPPTX returns the template package with one slide appended per deck slide.
// Slides already present in the template are kept ahead of the new ones.
func RenderPPTX(pkg *templates.Package, deck *types.Deck, opts PPTXOptions) ([]byte, error) {
	if deck == nil || len(deck.Slides) == 0 {
		return nil, &RenderError{Message: "deck has no slides"}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	w, err := newPackageWriter(pkg, opts)
	if err != nil {
		return nil, err
	}
	for _, slide := range deck.Slides {
		if err := w.addSlide(slide); err != nil {
			return nil, err
		}
	}
	return w.finish()
}

type slideRef struct {
	id  int
	rid string
}

// packageWriter accumulates new parts and the edits to the template's shared parts
type packageWriter struct {
	pkg    *templates.Package
	opts   PPTXOptions
	// template is the catalog of the package being written into
	template *types.LayoutCatalog

	notesMaster string

	presRels     []templates.Relationship
	nextRID      int
	nextSlideID  int
	nextSlide    int
	nextNotes    int
	nextImage    int
	slideRefs    []slideRef
	overrides    strings.Builder
	imageExts    map[string]bool
	newParts     []string
	newPartsData map[string][]byte
}

func newPackageWriter(pkg *templates.Package, opts PPTXOptions) (*packageWriter, error) {
	catalog, err := templates.AnalyzePackage(pkg)
	if err != nil {
		return nil, &RenderError{Message: "malformed template", Cause: err}
	}
	presRels, err := pkg.Rels(templates.PresentationPart)
	if err != nil {
		return nil, &RenderError{Message: "malformed template", Cause: err}
	}
	presXML, err := pkg.Read(templates.PresentationPart)
	if err != nil {
		return nil, &RenderError{Message: "malformed template", Cause: err}
	}

	w := &packageWriter{
		pkg:          pkg,
		opts:         opts,
		template:     catalog,
		presRels:     presRels,
		nextRID:      maxRelID(presRels) + 1,
		nextSlideID:  256,
		nextSlide:    maxPartNumber(pkg, slidePartRe) + 1,
		nextNotes:    maxPartNumber(pkg, notesPartRe) + 1,
		nextImage:    maxPartNumber(pkg, mediaPartRe) + 1,
		imageExts:    make(map[string]bool),
		newPartsData: make(map[string][]byte),
	}
	for _, m := range sldIDRe.FindAllSubmatch(presXML, -1) {
		if id, err := strconv.Atoi(string(m[1])); err == nil && id >= w.nextSlideID {
			w.nextSlideID = id + 1
		}
	}
	for _, r := range presRels {
		if r.Type == templates.RelTypeNotesMaster {
			w.notesMaster = templates.ResolveTarget(templates.PresentationPart, r.Target)
			break
		}
	}
	return w, nil
}

func (w *packageWriter) addSlide(slide types.PopulatedSlide) error {
	entry, err := w.resolveLayout(slide)
	if err != nil {
		return err
	}

	slidePart := fmt.Sprintf("ppt/slides/slide%d.xml", w.nextSlide)
	w.nextSlide++

	rels := []templates.Relationship{{
		ID:     "rId1",
		Type:   templates.RelTypeSlideLayout,
		Target: templates.RelativeTarget(slidePart, entry.Part),
	}}
	nextID := func() string { return "rId" + strconv.Itoa(len(rels)+1) }

	used := make(map[int]bool)
	var shapes []shapeData
	var notes string

	for _, fill := range slide.Fills {
		if fill.Role == types.RoleNotes {
			notes = fill.Text
			continue
		}

		pos, ok := templateSlot(entry, fill, used)
		if !ok {
			w.opts.Logger.Warn("no placeholder for fill in template layout",
				zap.Int("slide", slide.Index),
				zap.String("layout", entry.Name),
				zap.String("role", string(fill.Role)),
				zap.Int("index", fill.Index))
			continue
		}
		used[pos] = true
		slot := entry.Placeholders[pos]

		shape := shapeData{
			ID:     len(shapes) + 2,
			Name:   slot.Name,
			PhType: slot.Type,
			PhIdx:  slot.Index,
		}
		if shape.Name == "" {
			shape.Name = fmt.Sprintf("Placeholder %d", shape.ID-1)
		}

		switch fill.Role {
		case types.RoleBody:
			for _, p := range fill.Paragraphs {
				shape.Paragraphs = append(shape.Paragraphs, paragraphData{
					Level: clampLevel(p.Level),
					Lines: strings.Split(p.Text, "\n"),
				})
			}
		case types.RoleImage:
			if fill.Image == nil {
				continue
			}
			media, ok := w.embedImage(fill.Image, slide.Index)
			if ok {
				shape.ImageRID = nextID()
				shape.Descr = fill.Image.Alt
				if shape.Descr == "" {
					shape.Descr = fill.Image.Caption
				}
				rels = append(rels, templates.Relationship{
					ID:     shape.ImageRID,
					Type:   templates.RelTypeImage,
					Target: templates.RelativeTarget(slidePart, media),
				})
				break
			}
			label := fill.Image.Caption
			if label == "" {
				label = fill.Image.Alt
			}
			if label == "" {
				continue
			}
			shape.Paragraphs = textParagraphs(label)
		default:
			shape.Paragraphs = textParagraphs(fill.Text)
		}
		shapes = append(shapes, shape)
	}

	if notes != "" && w.notesMaster != "" {
		notesPart, err := w.addNotes(slidePart, notes)
		if err != nil {
			return err
		}
		rels = append(rels, templates.Relationship{
			ID:     nextID(),
			Type:   templates.RelTypeNotesSlide,
			Target: templates.RelativeTarget(slidePart, notesPart),
		})
	}

	data, err := executeTemplate("slide", partData{Shapes: shapes})
	if err != nil {
		return err
	}
	relsData, err := templates.MarshalRels(rels)
	if err != nil {
		return &RenderError{Message: "failed to encode slide relationships", Cause: err}
	}
	w.addPart(slidePart, data, ctSlide)
	w.addPart(templates.RelsPath(slidePart), relsData, "")

	rid := "rId" + strconv.Itoa(w.nextRID)
	w.nextRID++
	w.presRels = append(w.presRels, templates.Relationship{
		ID:     rid,
		Type:   templates.RelTypeSlide,
		Target: templates.RelativeTarget(templates.PresentationPart, slidePart),
	})
	w.slideRefs = append(w.slideRefs, slideRef{id: w.nextSlideID, rid: rid})
	w.nextSlideID++

	return nil
}

func (w *packageWriter) addNotes(slidePart, notes string) (string, error) {
	notesPart := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", w.nextNotes)
	w.nextNotes++

	data, err := executeTemplate("notes", partData{Shapes: []shapeData{
		{ID: 2, Name: "Slide Image Placeholder 1", PhType: "sldImg"},
		{ID: 3, Name: "Notes Placeholder 2", PhType: "body", PhIdx: 1, Paragraphs: notesParagraphs(notes)},
	}})
	if err != nil {
		return "", err
	}
	relsData, err := templates.MarshalRels([]templates.Relationship{
		{ID: "rId1", Type: templates.RelTypeNotesMaster, Target: templates.RelativeTarget(notesPart, w.notesMaster)},
		{ID: "rId2", Type: templates.RelTypeSlide, Target: templates.RelativeTarget(notesPart, slidePart)},
	})
	if err != nil {
		return "", &RenderError{Message: "failed to encode notes relationships", Cause: err}
	}
	w.addPart(notesPart, data, ctNotesSlide)
	w.addPart(templates.RelsPath(notesPart), relsData, "")
	return notesPart, nil
}

// embedImage copies a readable raster image into the package
func (w *packageWriter) embedImage(img *types.ImageRef, slideIndex int) (string, bool) {
	if img.Path == "" {
		return "", false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(img.Path), "."))
	if _, ok := imageContentTypes[ext]; !ok {
		w.opts.Logger.Warn("unsupported image format, writing caption instead",
			zap.Int("slide", slideIndex), zap.String("path", img.Path))
		return "", false
	}

	p := img.Path
	if !filepath.IsAbs(p) && w.opts.ImageDir != "" {
		p = filepath.Join(w.opts.ImageDir, p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		w.opts.Logger.Warn("image not readable, writing caption instead",
			zap.Int("slide", slideIndex), zap.String("path", p), zap.Error(err))
		return "", false
	}

	part := fmt.Sprintf("ppt/media/image%d.%s", w.nextImage, ext)
	w.nextImage++
	w.addPart(part, data, "")
	w.imageExts[ext] = true
	return part, true
}

func (w *packageWriter) addPart(name string, data []byte, contentType string) {
	w.newParts = append(w.newParts, name)
	w.newPartsData[name] = data
	if contentType != "" {
		fmt.Fprintf(&w.overrides, `<Override PartName="/%s" ContentType="%s"/>`, name, contentType)
	}
}

// resolveLayout finds the template layout a slide was matched to: by the catalog's
// part name first, then by layout name.
func (w *packageWriter) resolveLayout(slide types.PopulatedSlide) (types.LayoutCatalogEntry, error) {
	if c := w.opts.Catalog; c != nil && slide.Layout.CatalogIndex >= 0 && slide.Layout.CatalogIndex < len(c.Layouts) {
		if part := c.Layouts[slide.Layout.CatalogIndex].Part; part != "" {
			for _, entry := range w.template.Layouts {
				if entry.Part == part {
					return entry, nil
				}
			}
		}
	}
	for _, entry := range w.template.Layouts {
		if entry.Name == slide.Layout.Name {
			return entry, nil
		}
	}
	return types.LayoutCatalogEntry{}, &RenderError{
		Message: fmt.Sprintf("slide %d: layout %q not found in template", slide.Index, slide.Layout.Name),
	}
}

// templateSlot picks the template placeholder for a fill: the slot with the same
// role and index, else the first unused slot of the role.
func templateSlot(entry types.LayoutCatalogEntry, fill types.Fill, used map[int]bool) (int, bool) {
	fallback := -1
	for i, slot := range entry.Placeholders {
		if slot.Role != fill.Role || used[i] {
			continue
		}
		if slot.Index == fill.Index {
			return i, true
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback, fallback >= 0
}

// finish writes the output package: template parts in archive order with the
// shared parts edited, followed by the new parts.
func (w *packageWriter) finish() ([]byte, error) {
	edited := make(map[string][]byte, 3)

	presXML, err := w.pkg.Read(templates.PresentationPart)
	if err != nil {
		return nil, &RenderError{Message: "malformed template", Cause: err}
	}
	if edited[templates.PresentationPart], err = insertSlideList(presXML, w.slideRefs); err != nil {
		return nil, err
	}
	if edited[templates.RelsPath(templates.PresentationPart)], err = templates.MarshalRels(w.presRels); err != nil {
		return nil, &RenderError{Message: "failed to encode presentation relationships", Cause: err}
	}
	ctXML, err := w.pkg.Read(contentTypesPart)
	if err != nil {
		return nil, &RenderError{Message: "malformed template", Cause: err}
	}
	if edited[contentTypesPart], err = w.contentTypes(ctXML); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, data []byte) error {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		_, err = fw.Write(data)
		return err
	}

	if err := write(contentTypesPart, edited[contentTypesPart]); err != nil {
		return nil, &RenderError{Message: "failed to write package", Cause: err}
	}
	for _, f := range w.pkg.Files() {
		if f.Name == contentTypesPart {
			continue
		}
		if data, ok := edited[f.Name]; ok {
			err = write(f.Name, data)
		} else {
			err = zw.Copy(f)
		}
		if err != nil {
			return nil, &RenderError{Message: fmt.Sprintf("failed to copy %s", f.Name), Cause: err}
		}
	}
	for _, name := range w.newParts {
		if err := write(name, w.newPartsData[name]); err != nil {
			return nil, &RenderError{Message: fmt.Sprintf("failed to write %s", name), Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, &RenderError{Message: "failed to finalize package", Cause: err}
	}
	return buf.Bytes(), nil
}

// contentTypes registers the new parts and image extensions. A .potx main part is
// re-typed as a presentation.
func (w *packageWriter) contentTypes(data []byte) ([]byte, error) {
	s := strings.Replace(string(data), ctTmplMain, ctPresMain, 1)

	var additions strings.Builder
	lower := strings.ToLower(s)
	exts := make([]string, 0, len(w.imageExts))
	for ext := range w.imageExts {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	for _, ext := range exts {
		if strings.Contains(lower, `extension="`+ext+`"`) {
			continue
		}
		fmt.Fprintf(&additions, `<Default Extension="%s" ContentType="%s"/>`, ext, imageContentTypes[ext])
	}
	additions.WriteString(w.overrides.String())

	end := strings.LastIndex(s, "</Types>")
	if end < 0 {
		return nil, &RenderError{Message: "malformed template: [Content_Types].xml has no Types element"}
	}
	return []byte(s[:end] + additions.String() + s[end:]), nil
}

// insertSlideList adds slide id entries to the presentation's sldIdLst, creating
// the list ahead of sldSz/notesSz when the template has none.
func insertSlideList(data []byte, refs []slideRef) ([]byte, error) {
	s := string(data)

	prefix := ""
	if m := rootPrefixRe.FindStringSubmatch(s); m != nil && m[1] != "" {
		prefix = m[1] + ":"
	}
	// without a declared prefix each entry declares its own
	relPrefix := `xmlns:r="` + nsRelsURI + `" r`
	if m := relsPrefixRe.FindStringSubmatch(s); m != nil {
		relPrefix = m[1]
	}
	var entries strings.Builder
	for _, ref := range refs {
		fmt.Fprintf(&entries, `<%ssldId id="%d" %s:id="%s"/>`, prefix, ref.id, relPrefix, ref.rid)
	}
	list := entries.String()

	closing := "</" + prefix + "sldIdLst>"
	if i := strings.Index(s, closing); i >= 0 {
		return []byte(s[:i] + list + s[i:]), nil
	}

	full := "<" + prefix + "sldIdLst>" + list + closing
	empty := regexp.MustCompile(`<` + regexp.QuoteMeta(prefix) + `sldIdLst\s*/>`)
	if loc := empty.FindStringIndex(s); loc != nil {
		return []byte(s[:loc[0]] + full + s[loc[1]:]), nil
	}
	for _, anchor := range []string{"sldSz", "notesSz"} {
		if i := strings.Index(s, "<"+prefix+anchor); i >= 0 {
			return []byte(s[:i] + full + s[i:]), nil
		}
	}
	return nil, &RenderError{Message: "malformed template: presentation has no slide size"}
}

func maxRelID(rels []templates.Relationship) int {
	n := 0
	for _, r := range rels {
		if v, err := strconv.Atoi(strings.TrimPrefix(r.ID, "rId")); err == nil && v > n {
			n = v
		}
	}
	return n
}

func maxPartNumber(pkg *templates.Package, re *regexp.Regexp) int {
	n := 0
	for _, f := range pkg.Files() {
		m := re.FindStringSubmatch(path.Clean(f.Name))
		if m == nil {
			continue
		}
		if v, err := strconv.Atoi(m[1]); err == nil && v > n {
			n = v
		}
	}
	return n
}
