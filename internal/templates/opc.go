package templates

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Relationship types used by presentation packages
const (
	RelTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	RelTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	RelTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelTypeNotesMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster"
	RelTypeNotesSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	RelTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	RelTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// PresentationPart is the main part of a presentation package
const PresentationPart = "ppt/presentation.xml"

// Relationship is one entry of a .rels part
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type relationships struct {
	XMLName       xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// Package is a read-only view of an Office Open XML zip package
type Package struct {
	files map[string]*zip.File
	order []*zip.File
}

// OpenPackage reads a package from disk
func OpenPackage(filename string) (*Package, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewPackage(data)
}

// NewPackage reads a package from memory
func NewPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a zip package: %w", err)
	}

	p := &Package{files: make(map[string]*zip.File, len(zr.File)), order: zr.File}
	for _, f := range zr.File {
		p.files[f.Name] = f
	}
	return p, nil
}

// Files returns the package entries in archive order
func (p *Package) Files() []*zip.File {
	return p.order
}

// Has reports whether the package contains a part
func (p *Package) Has(name string) bool {
	_, ok := p.files[name]
	return ok
}

// Read returns the content of a part
func (p *Package) Read(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("missing part %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// Rels returns the relationships of a part. A part without a .rels file has none.
func (p *Package) Rels(part string) ([]Relationship, error) {
	name := RelsPath(part)
	if !p.Has(name) {
		return nil, nil
	}
	data, err := p.Read(name)
	if err != nil {
		return nil, err
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return rels.Relationships, nil
}

// RelsPath returns the name of the .rels part that belongs to part
func RelsPath(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// ResolveTarget turns a relationship target into a part name
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// RelativeTarget returns the target to write in source's .rels to reach part
func RelativeTarget(source, part string) string {
	from := strings.Split(path.Dir(source), "/")
	to := strings.Split(part, "/")
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	rel := strings.Repeat("../", len(from)-i) + strings.Join(to[i:], "/")
	return rel
}

// MarshalRels encodes relationships as a .rels part
func MarshalRels(rels []Relationship) ([]byte, error) {
	out, err := xml.Marshal(relationships{Relationships: rels})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func findRel(rels []Relationship, id string) (Relationship, bool) {
	for _, r := range rels {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

func firstRelOfType(rels []Relationship, relType string) (Relationship, bool) {
	for _, r := range rels {
		if r.Type == relType {
			return r, true
		}
	}
	return Relationship{}, false
}
