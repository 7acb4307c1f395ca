package types

// Paragraph is one line of body text with its indentation level
type Paragraph struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// ImageRef is the image content placed into an IMAGE slot
type ImageRef struct {
	Path    string `json:"path,omitempty"`
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

// Fill is the content for one placeholder slot
type Fill struct {
	Role       PlaceholderRole `json:"role"`
	Index      int             `json:"index"`
	Text       string          `json:"text,omitempty"`
	Paragraphs []Paragraph     `json:"paragraphs,omitempty"`
	Image      *ImageRef       `json:"image,omitempty"`
}

// LayoutRef points at the catalog entry a slide was built from
type LayoutRef struct {
	Name         string `json:"name"`
	CatalogIndex int    `json:"catalog_index"`
}

// PopulatedSlide is a slide with every fill resolved, ready for the deck writer
type PopulatedSlide struct {
	Index       int         `json:"index"`
	ID          string      `json:"id"`
	Kind        string      `json:"kind,omitempty"`
	ContentHint ContentHint `json:"content_hint"`
	Layout      LayoutRef   `json:"layout"`
	Fills       []Fill      `json:"fills"`
	Truncated   bool        `json:"truncated,omitempty"`
}

// Lookup returns the fill for a role and slot index
func (s PopulatedSlide) Lookup(role PlaceholderRole, index int) (Fill, bool) {
	for _, f := range s.Fills {
		if f.Role == role && f.Index == index {
			return f, true
		}
	}
	return Fill{}, false
}

// WarningKind identifies a degraded-but-recoverable condition
type WarningKind string

// WarningKind values
const (
	WarningTruncation   WarningKind = "truncation"
	WarningImageDemoted WarningKind = "image_demoted"
	WarningImageDropped WarningKind = "image_dropped"
	WarningBodyDropped  WarningKind = "body_dropped"
)

// Warning is a non-fatal condition recorded while populating a slide
type Warning struct {
	SlideIndex int         `json:"slide_index"`
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
}

// LayoutUsage counts how many slides used a layout
type LayoutUsage struct {
	Layout string `json:"layout"`
	Slides int    `json:"slides"`
}

// Deck is the assembled slide sequence
type Deck struct {
	Title       string           `json:"title,omitempty"`
	Subtitle    string           `json:"subtitle,omitempty"`
	Theme       string           `json:"theme,omitempty"`
	Slides      []PopulatedSlide `json:"slides"`
	Warnings    []Warning        `json:"warnings,omitempty"`
	LayoutUsage []LayoutUsage    `json:"layout_usage,omitempty"`
}
