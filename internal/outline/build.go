package outline

import (
	"fmt"
	"strings"

	"github.com/jonathan/deck-builder/internal/types"
)

// Build validates a raw outline and converts it into an immutable types.Outline.
// It fails with EmptyOutlineError when there are no slides and with MalformedOutlineError
// naming the slide index when a title is missing or bullet nesting skips a level.
func Build(raw *types.RawOutline) (*types.Outline, error) {
	if raw == nil || len(raw.Slides) == 0 {
		return nil, &EmptyOutlineError{}
	}

	out := &types.Outline{
		Title:    strings.TrimSpace(raw.PresentationTitle),
		Subtitle: strings.TrimSpace(raw.PresentationSubtitle),
		Slides:   make([]types.SlideSpec, 0, len(raw.Slides)),
	}

	for i, rs := range raw.Slides {
		slide, err := buildSlide(i, rs)
		if err != nil {
			return nil, err
		}
		out.Slides = append(out.Slides, slide)
	}

	return out, nil
}

func buildSlide(index int, raw types.RawSlide) (types.SlideSpec, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return types.SlideSpec{}, &MalformedOutlineError{SlideIndex: index, Reason: "slide title is empty"}
	}

	// Blank bullets carry nothing to show; levels are checked on what remains
	kept := make([]types.RawBullet, 0, len(raw.Bullets))
	for _, b := range raw.Bullets {
		if text := strings.TrimSpace(b.Text); text != "" {
			kept = append(kept, types.RawBullet{Text: text, Level: b.Level})
		}
	}
	if reason := checkLevels(kept); reason != "" {
		return types.SlideSpec{}, &MalformedOutlineError{SlideIndex: index, Reason: reason}
	}

	var bullets []types.BulletItem
	for _, b := range kept {
		bullets = append(bullets, types.BulletItem{Text: b.Text, Level: b.Level})
	}

	slide := types.SlideSpec{
		Kind:     strings.ToLower(strings.TrimSpace(raw.SlideType)),
		Title:    title,
		Subtitle: strings.TrimSpace(raw.Subtitle),
		Bullets:  bullets,
		Notes:    FormatNotes(raw.Notes),
		Image:    buildImage(raw.Image),
	}
	slide.ContentHint = DeriveContentHint(slide)

	return slide, nil
}

// checkLevels returns a reason when bullet nesting is invalid: the first bullet must sit
// at level 0 and each bullet may be at most one level deeper than the one before it.
func checkLevels(bullets []types.RawBullet) string {
	for i, b := range bullets {
		switch {
		case b.Level < 0:
			return fmt.Sprintf("bullet %d has negative level %d", i, b.Level)
		case i == 0 && b.Level != 0:
			return fmt.Sprintf("first bullet must be at level 0, got level %d", b.Level)
		case i > 0 && b.Level > bullets[i-1].Level+1:
			return fmt.Sprintf("bullet %d skips from level %d to level %d", i, bullets[i-1].Level, b.Level)
		}
	}
	return ""
}

func buildImage(raw *types.RawImage) *types.ImageSpec {
	if raw == nil {
		return nil
	}
	img := &types.ImageSpec{
		Path:    strings.TrimSpace(raw.Path),
		Caption: strings.TrimSpace(raw.Description),
		Alt:     strings.TrimSpace(raw.Alt),
	}
	if img.Path == "" && img.Caption == "" && img.Alt == "" {
		return nil
	}
	return img
}

// DeriveContentHint classifies a slide: IMAGE when it carries an image marker, else BULLETS
// when it has bullets, else TEXT_ONLY when it has notes, else TITLE_ONLY.
func DeriveContentHint(slide types.SlideSpec) types.ContentHint {
	switch {
	case slide.Image != nil:
		return types.HintImage
	case len(slide.Bullets) > 0:
		return types.HintBullets
	case slide.Notes != "":
		return types.HintTextOnly
	default:
		return types.HintTitleOnly
	}
}

// FormatNotes trims every line of speaker notes and drops blank lines
func FormatNotes(notes string) string {
	if notes == "" {
		return ""
	}
	notes = strings.ReplaceAll(notes, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(notes, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
