package templates

import (
	"strconv"
	"strings"

	"github.com/jonathan/deck-builder/internal/types"
)

// DefaultTheme is the theme name of the built-in catalog
const DefaultTheme = "Office Theme"

func slot(role types.PlaceholderRole, index int, name, phType string) types.PlaceholderSlot {
	return types.PlaceholderSlot{Role: role, Index: index, Name: name, Type: phType}
}

// DefaultCatalog describes the layouts of the stock Office template, for use when no
// template is given.
func DefaultCatalog() *types.LayoutCatalog {
	layout := func(n int, name string, slots ...types.PlaceholderSlot) types.LayoutCatalogEntry {
		if slots == nil {
			slots = []types.PlaceholderSlot{}
		}
		return types.LayoutCatalogEntry{
			Name:         name,
			Placeholders: slots,
			Part:         "ppt/slideLayouts/slideLayout" + strconv.Itoa(n) + ".xml",
		}
	}

	return &types.LayoutCatalog{
		Source: "builtin",
		Theme:  DefaultTheme,
		Layouts: []types.LayoutCatalogEntry{
			layout(1, "Title Slide",
				slot(types.RoleTitle, 0, "Title 1", "ctrTitle"),
				slot(types.RoleSubtitle, 1, "Subtitle 2", "subTitle")),
			layout(2, "Title and Content",
				slot(types.RoleTitle, 0, "Title 1", "title"),
				slot(types.RoleBody, 1, "Content Placeholder 2", "")),
			layout(3, "Section Header",
				slot(types.RoleTitle, 0, "Title 1", "title"),
				slot(types.RoleBody, 1, "Text Placeholder 2", "body")),
			layout(4, "Two Content",
				slot(types.RoleTitle, 0, "Title 1", "title"),
				slot(types.RoleBody, 1, "Content Placeholder 2", ""),
				slot(types.RoleBody, 2, "Content Placeholder 3", "")),
			layout(5, "Comparison",
				slot(types.RoleTitle, 0, "Title 1", "title"),
				slot(types.RoleBody, 1, "Text Placeholder 2", "body"),
				slot(types.RoleBody, 2, "Content Placeholder 3", ""),
				slot(types.RoleBody, 3, "Text Placeholder 4", "body"),
				slot(types.RoleBody, 4, "Content Placeholder 5", "")),
			layout(6, "Title Only",
				slot(types.RoleTitle, 0, "Title 1", "title")),
			layout(7, "Blank"),
			layout(8, "Content with Caption",
				slot(types.RoleTitle, 0, "Title 1", "title"),
				slot(types.RoleBody, 1, "Content Placeholder 2", ""),
				slot(types.RoleBody, 2, "Text Placeholder 3", "body")),
			layout(9, "Picture with Caption",
				slot(types.RoleTitle, 0, "Title 1", "title"),
				slot(types.RoleImage, 1, "Picture Placeholder 2", "pic"),
				slot(types.RoleBody, 2, "Text Placeholder 3", "body")),
		},
	}
}

// LayoutKind is a coarse, name-based grouping of layouts used in verbose output
type LayoutKind string

// LayoutKind values
const (
	KindTitle   LayoutKind = "title"
	KindSection LayoutKind = "section"
	KindContent LayoutKind = "content"
	KindPicture LayoutKind = "picture"
	KindBlank   LayoutKind = "blank"
	KindOther   LayoutKind = "other"
)

var layoutNameHints = []struct {
	kind  LayoutKind
	names []string
}{
	{KindPicture, []string{"picture", "photo", "image"}},
	{KindSection, []string{"section"}},
	{KindContent, []string{"content", "comparison", "text"}},
	{KindBlank, []string{"blank"}},
	{KindTitle, []string{"title"}},
}

// ClassifyLayoutName guesses what a layout is for from its name
func ClassifyLayoutName(name string) LayoutKind {
	lower := strings.ToLower(name)
	for _, hint := range layoutNameHints {
		for _, n := range hint.names {
			if strings.Contains(lower, n) {
				return hint.kind
			}
		}
	}
	return KindOther
}
