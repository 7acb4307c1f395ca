// Package templates builds layout catalogs from presentation templates and catalog files.
package templates

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonathan/deck-builder/internal/types"
)

type presentationXML struct {
	Masters []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldMasterIdLst>sldMasterId"`
	NotesMasters []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"notesMasterIdLst>notesMasterId"`
}

type masterXML struct {
	Layouts []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldLayoutIdLst>sldLayoutId"`
}

// AnalyzePPTX reads the layouts of the first slide master of a .pptx or .potx template,
// in master order, and classifies their placeholders.
func AnalyzePPTX(filename string) (*types.LayoutCatalog, error) {
	pkg, err := OpenPackage(filename)
	if err != nil {
		return nil, &AnalysisError{Path: filename, Message: "failed to open template", Cause: err}
	}
	catalog, err := AnalyzePackage(pkg)
	if err != nil {
		return nil, &AnalysisError{Path: filename, Message: "malformed template", Cause: err}
	}
	catalog.Source = filename
	return catalog, nil
}

// AnalyzePackage builds the catalog of an opened presentation package
func AnalyzePackage(pkg *Package) (*types.LayoutCatalog, error) {
	data, err := pkg.Read(PresentationPart)
	if err != nil {
		return nil, err
	}
	var pres presentationXML
	if err := xml.Unmarshal(data, &pres); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", PresentationPart, err)
	}
	if len(pres.Masters) == 0 {
		return nil, errors.New("presentation has no slide master")
	}

	presRels, err := pkg.Rels(PresentationPart)
	if err != nil {
		return nil, err
	}
	masterRel, ok := findRel(presRels, pres.Masters[0].RID)
	if !ok {
		return nil, fmt.Errorf("slide master relationship %s not found", pres.Masters[0].RID)
	}
	masterPart := ResolveTarget(PresentationPart, masterRel.Target)

	_, hasNotesRel := firstRelOfType(presRels, RelTypeNotesMaster)
	hasNotes := len(pres.NotesMasters) > 0 || hasNotesRel

	data, err = pkg.Read(masterPart)
	if err != nil {
		return nil, err
	}
	var master masterXML
	if err := xml.Unmarshal(data, &master); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", masterPart, err)
	}
	masterRels, err := pkg.Rels(masterPart)
	if err != nil {
		return nil, err
	}

	catalog := &types.LayoutCatalog{
		Theme:   themeName(pkg, masterPart, masterRels),
		Layouts: make([]types.LayoutCatalogEntry, 0, len(master.Layouts)),
	}

	for _, l := range master.Layouts {
		rel, ok := findRel(masterRels, l.RID)
		if !ok {
			return nil, fmt.Errorf("layout relationship %s not found in %s", l.RID, masterPart)
		}
		layoutPart := ResolveTarget(masterPart, rel.Target)
		layoutData, err := pkg.Read(layoutPart)
		if err != nil {
			return nil, err
		}
		entry, err := parseLayout(layoutData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", layoutPart, err)
		}
		entry.Part = layoutPart
		if hasNotes {
			entry.Placeholders = append(entry.Placeholders, notesSlot(entry.Placeholders))
		}
		catalog.Layouts = append(catalog.Layouts, entry)
	}

	return catalog, nil
}

// parseLayout reads the layout name and its placeholders in shape-tree order
func parseLayout(data []byte) (types.LayoutCatalogEntry, error) {
	entry := types.LayoutCatalogEntry{Placeholders: []types.PlaceholderSlot{}}
	dec := xml.NewDecoder(bytes.NewReader(data))

	var shapeName string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entry, err
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch el.Name.Local {
		case "cSld":
			entry.Name = attr(el, "name")
		case "cNvPr":
			shapeName = attr(el, "name")
		case "ph":
			phType := attr(el, "type")
			idx := 0
			if v := attr(el, "idx"); v != "" {
				if idx, err = strconv.Atoi(v); err != nil || idx < 0 {
					return entry, fmt.Errorf("invalid placeholder idx %q", v)
				}
			}
			entry.Placeholders = append(entry.Placeholders, types.PlaceholderSlot{
				Role:  ClassifyPlaceholder(phType),
				Index: idx,
				Name:  shapeName,
				Type:  phType,
			})
		}
	}

	if entry.Name == "" {
		entry.Name = "Untitled Layout"
	}
	return entry, nil
}

// ClassifyPlaceholder maps an OOXML placeholder type to a role. A placeholder without
// a type is a generic content (obj) placeholder.
func ClassifyPlaceholder(phType string) types.PlaceholderRole {
	switch phType {
	case "title", "ctrTitle":
		return types.RoleTitle
	case "subTitle":
		return types.RoleSubtitle
	case "body", "obj", "":
		return types.RoleBody
	case "pic":
		return types.RoleImage
	default:
		return types.RoleOther
	}
}

// notesSlot is placed after the layout's highest placeholder index
func notesSlot(slots []types.PlaceholderSlot) types.PlaceholderSlot {
	next := 0
	for _, s := range slots {
		if s.Index >= next {
			next = s.Index + 1
		}
	}
	return types.PlaceholderSlot{Role: types.RoleNotes, Index: next, Name: "Notes", Type: "notes"}
}

func themeName(pkg *Package, masterPart string, masterRels []Relationship) string {
	part := "ppt/theme/theme1.xml"
	if rel, ok := firstRelOfType(masterRels, RelTypeTheme); ok {
		part = ResolveTarget(masterPart, rel.Target)
	}
	data, err := pkg.Read(part)
	if err != nil {
		return ""
	}
	var theme struct {
		Name string `xml:"name,attr"`
	}
	if err := xml.Unmarshal(data, &theme); err != nil {
		return ""
	}
	return strings.TrimSpace(theme.Name)
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
