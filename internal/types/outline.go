package types

import "encoding/json"

// RawOutline is the untrusted outline as returned by the language model
type RawOutline struct {
	PresentationTitle    string     `json:"presentation_title"`
	PresentationSubtitle string     `json:"presentation_subtitle,omitempty"`
	Slides               []RawSlide `json:"slides"`
}

// RawSlide is one slide of a RawOutline
type RawSlide struct {
	SlideType string      `json:"slide_type,omitempty"`
	Title     string      `json:"title"`
	Subtitle  string      `json:"subtitle,omitempty"`
	Bullets   []RawBullet `json:"bullets,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	Image     *RawImage   `json:"image,omitempty"`
}

// RawBullet is a bullet as emitted by the model. A bare JSON string decodes as a level 0 bullet.
type RawBullet struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// UnmarshalJSON accepts either "text" or {"text": "...", "level": n}
func (b *RawBullet) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*b = RawBullet{Text: text}
		return nil
	}

	type plain RawBullet
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = RawBullet(p)
	return nil
}

// RawImage is the optional image marker on a raw slide
type RawImage struct {
	Path        string `json:"path,omitempty"`
	Description string `json:"description,omitempty"`
	Alt         string `json:"alt,omitempty"`
}

// ContentHint classifies what a slide carries
type ContentHint string

// ContentHint values
const (
	HintTitleOnly ContentHint = "TITLE_ONLY"
	HintTextOnly  ContentHint = "TEXT_ONLY"
	HintBullets   ContentHint = "BULLETS"
	HintImage     ContentHint = "IMAGE"
)

// Outline is the validated presentation outline
type Outline struct {
	Title    string      `json:"title,omitempty"`
	Subtitle string      `json:"subtitle,omitempty"`
	Slides   []SlideSpec `json:"slides"`
}

// SlideSpec is one validated outline slide. ContentHint is derived once at construction.
type SlideSpec struct {
	Kind        string       `json:"kind,omitempty"`
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle,omitempty"`
	Bullets     []BulletItem `json:"bullets,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Image       *ImageSpec   `json:"image,omitempty"`
	ContentHint ContentHint  `json:"content_hint"`
}

// BulletItem is a bullet with its nesting depth
type BulletItem struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// ImageSpec describes an image the slide should show
type ImageSpec struct {
	Path    string `json:"path,omitempty"`
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

// Label returns the caption, falling back to the alt text
func (i *ImageSpec) Label() string {
	if i == nil {
		return ""
	}
	if i.Caption != "" {
		return i.Caption
	}
	return i.Alt
}
