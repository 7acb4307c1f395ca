package populate

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/deck-builder/internal/matching"
	"github.com/jonathan/deck-builder/internal/types"
)

const (
	// DefaultMaxBodyBullets is the soft limit of entries in a single BODY slot
	DefaultMaxBodyBullets = 8
	// DefaultContinuationText marks where body content was cut
	DefaultContinuationText = "…"
)

// slideNamespace seeds the name-based slide IDs
var slideNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("deck-builder/slide"))

// Options tunes how content is fitted into placeholders
type Options struct {
	// MaxBodyBullets is the threshold N; zero disables truncation
	MaxBodyBullets   int
	ContinuationText string
}

// DefaultOptions returns the default fill options
func DefaultOptions() Options {
	return Options{
		MaxBodyBullets:   DefaultMaxBodyBullets,
		ContinuationText: DefaultContinuationText,
	}
}

// Result is a populated slide plus the degraded conditions met while filling it
type Result struct {
	Slide    types.PopulatedSlide
	Warnings []types.Warning
}

// Populator fills layouts with slide content
type Populator struct {
	opts Options
}

// NewPopulator creates a Populator
func NewPopulator(opts Options) *Populator {
	if opts.MaxBodyBullets < 0 {
		opts.MaxBodyBullets = 0
	}
	if opts.ContinuationText == "" {
		opts.ContinuationText = DefaultContinuationText
	}
	return &Populator{opts: opts}
}

type slotKey struct {
	role  types.PlaceholderRole
	index int
}

// Populate builds the PopulatedSlide for the slide at index using its matched layout.
// Neither the slide nor the match is modified.
func (p *Populator) Populate(index int, slide types.SlideSpec, match *matching.MatchResult) (*Result, error) {
	if slide.Title == "" && requiresTitle(match) {
		return nil, &MissingTitleError{SlideIndex: index}
	}

	entry := match.Entry
	fills := make(map[slotKey]*types.Fill)
	var warnings []types.Warning
	warn := func(kind types.WarningKind, format string, args ...any) {
		warnings = append(warnings, types.Warning{
			SlideIndex: index,
			Kind:       kind,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	if slots := entry.SlotsFor(types.RoleTitle); len(slots) > 0 {
		fillFor(fills, slots[0]).Text = slide.Title
	}

	if slots := entry.SlotsFor(types.RoleSubtitle); len(slots) > 0 && slide.Subtitle != "" {
		fillFor(fills, slots[0]).Text = slide.Subtitle
	}

	if slots := entry.SlotsFor(types.RoleNotes); len(slots) > 0 && slide.Notes != "" {
		fillFor(fills, slots[0]).Text = slide.Notes
	}

	bodySlots := entry.SlotsFor(types.RoleBody)
	body := bodyParagraphs(slide)

	if slide.Image != nil {
		imageSlots := entry.SlotsFor(types.RoleImage)
		label := slide.Image.Label()
		switch {
		case len(imageSlots) > 0:
			fillFor(fills, imageSlots[0]).Image = &types.ImageRef{
				Path:    slide.Image.Path,
				Caption: slide.Image.Caption,
				Alt:     slide.Image.Alt,
			}
		case len(bodySlots) > 0 && label != "":
			body = append(body, types.Paragraph{Text: label, Level: 0})
			warn(types.WarningImageDemoted, "layout %q has no image slot; caption moved to body", entry.Name)
		default:
			warn(types.WarningImageDropped, "layout %q has no image slot; image dropped", entry.Name)
		}
	}

	truncated := false
	switch {
	case len(body) == 0:
	case len(bodySlots) == 0:
		if slide.ContentHint != types.HintTextOnly {
			warn(types.WarningBodyDropped, "layout %q has no body slot; %d bullets dropped", entry.Name, len(body))
		}
	case len(bodySlots) == 1:
		if n := p.opts.MaxBodyBullets; n > 0 && len(body) > n {
			warn(types.WarningTruncation, "body truncated from %d to %d entries", len(body), n)
			body = append(body[:n-1:n-1], types.Paragraph{Text: p.opts.ContinuationText, Level: 0})
			truncated = true
		}
		fillFor(fills, bodySlots[0]).Paragraphs = body
	default:
		for i, group := range groupParagraphs(body) {
			slot := bodySlots[min(i, len(bodySlots)-1)]
			f := fillFor(fills, slot)
			f.Paragraphs = append(f.Paragraphs, group...)
		}
	}

	return &Result{
		Slide: types.PopulatedSlide{
			Index:       index,
			ID:          SlideID(index, slide.Title),
			Kind:        slide.Kind,
			ContentHint: slide.ContentHint,
			Layout: types.LayoutRef{
				Name:         entry.Name,
				CatalogIndex: match.CatalogIndex,
			},
			Fills:     orderedFills(entry, fills),
			Truncated: truncated,
		},
		Warnings: warnings,
	}, nil
}

// SlideID derives a stable identifier from the slide position and title
func SlideID(index int, title string) string {
	return uuid.NewSHA1(slideNamespace, []byte(fmt.Sprintf("%d:%s", index, title))).String()
}

func requiresTitle(match *matching.MatchResult) bool {
	if len(match.Required) == 0 {
		return true
	}
	for _, role := range match.Required {
		if role == types.RoleTitle {
			return true
		}
	}
	return false
}

// bodyParagraphs returns a fresh copy of the content destined for BODY slots.
// TEXT_ONLY slides show their notes as body text.
func bodyParagraphs(slide types.SlideSpec) []types.Paragraph {
	if slide.ContentHint == types.HintTextOnly {
		return notesParagraphs(slide.Notes)
	}
	if len(slide.Bullets) == 0 {
		return nil
	}
	paragraphs := make([]types.Paragraph, len(slide.Bullets))
	for i, b := range slide.Bullets {
		paragraphs[i] = types.Paragraph{Text: b.Text, Level: b.Level}
	}
	return paragraphs
}

func notesParagraphs(notes string) []types.Paragraph {
	var paragraphs []types.Paragraph
	for _, line := range strings.Split(notes, "\n") {
		if line != "" {
			paragraphs = append(paragraphs, types.Paragraph{Text: line, Level: 0})
		}
	}
	return paragraphs
}

// groupParagraphs splits body content into top-level groups: each level 0 entry
// together with the deeper entries that follow it.
func groupParagraphs(paragraphs []types.Paragraph) [][]types.Paragraph {
	var groups [][]types.Paragraph
	for _, para := range paragraphs {
		if para.Level == 0 || len(groups) == 0 {
			groups = append(groups, nil)
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], para)
	}
	return groups
}

func fillFor(fills map[slotKey]*types.Fill, slot types.PlaceholderSlot) *types.Fill {
	key := slotKey{role: slot.Role, index: slot.Index}
	if f, ok := fills[key]; ok {
		return f
	}
	f := &types.Fill{Role: slot.Role, Index: slot.Index}
	fills[key] = f
	return f
}

// orderedFills lists fills in the layout's placeholder order so output is stable
func orderedFills(entry types.LayoutCatalogEntry, fills map[slotKey]*types.Fill) []types.Fill {
	ordered := make([]types.Fill, 0, len(fills))
	seen := make(map[slotKey]bool, len(fills))
	for _, slot := range entry.Placeholders {
		key := slotKey{role: slot.Role, index: slot.Index}
		f, ok := fills[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, *f)
	}
	return ordered
}
