package types

import (
	"sort"

	"github.com/go-playground/validator/v10"
)

// PlaceholderRole is the classified role of a placeholder slot
type PlaceholderRole string

// PlaceholderRole values
const (
	RoleTitle    PlaceholderRole = "TITLE"
	RoleBody     PlaceholderRole = "BODY"
	RoleSubtitle PlaceholderRole = "SUBTITLE"
	RoleNotes    PlaceholderRole = "NOTES"
	RoleImage    PlaceholderRole = "IMAGE"
	RoleOther    PlaceholderRole = "OTHER"
)

// PlaceholderSlot is a role-typed region of a layout.
// Index disambiguates slots sharing a role; Type keeps the template's own placeholder type.
type PlaceholderSlot struct {
	Role  PlaceholderRole `json:"role" yaml:"role" validate:"required,oneof=TITLE BODY SUBTITLE NOTES IMAGE OTHER"`
	Index int             `json:"index" yaml:"index" validate:"min=0"`
	Name  string          `json:"name,omitempty" yaml:"name,omitempty"`
	Type  string          `json:"type,omitempty" yaml:"type,omitempty"`
}

// LayoutCatalogEntry is one discovered template layout
type LayoutCatalogEntry struct {
	Name         string            `json:"name" yaml:"name" validate:"required"`
	Placeholders []PlaceholderSlot `json:"placeholders" yaml:"placeholders" validate:"dive"`
	Part         string            `json:"part,omitempty" yaml:"part,omitempty"`
}

// Has reports whether the layout has at least one slot with the role
func (e LayoutCatalogEntry) Has(role PlaceholderRole) bool {
	for _, slot := range e.Placeholders {
		if slot.Role == role {
			return true
		}
	}
	return false
}

// SlotsFor returns the slots with the role ordered by ascending index
func (e LayoutCatalogEntry) SlotsFor(role PlaceholderRole) []PlaceholderSlot {
	var slots []PlaceholderSlot
	for _, slot := range e.Placeholders {
		if slot.Role == role {
			slots = append(slots, slot)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Index < slots[j].Index
	})
	return slots
}

// LayoutCatalog is the ordered set of layouts offered by a template
type LayoutCatalog struct {
	Source  string               `json:"source,omitempty" yaml:"source,omitempty"`
	Theme   string               `json:"theme,omitempty" yaml:"theme,omitempty"`
	Layouts []LayoutCatalogEntry `json:"layouts" yaml:"layouts" validate:"dive"`
}

// Validate checks the catalog against its struct tags
func (c *LayoutCatalog) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
