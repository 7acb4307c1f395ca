package assembly

import (
	"github.com/jonathan/deck-builder/internal/matching"
	"github.com/jonathan/deck-builder/internal/outline"
	"github.com/jonathan/deck-builder/internal/populate"
	"github.com/jonathan/deck-builder/internal/types"
)

// Options configures layout matching and content fitting
type Options struct {
	Matching matching.Options
	Populate populate.Options
}

// DefaultOptions returns the default assembly options
func DefaultOptions() Options {
	return Options{
		Matching: matching.DefaultOptions(),
		Populate: populate.DefaultOptions(),
	}
}

// Assembler builds decks. It holds no state between calls.
type Assembler struct {
	matcher   *matching.Matcher
	populator *populate.Populator
}

// New creates an Assembler
func New(opts Options) *Assembler {
	return &Assembler{
		matcher:   matching.NewMatcher(opts.Matching),
		populator: populate.NewPopulator(opts.Populate),
	}
}

// Assemble produces exactly one populated slide per outline slide, in outline order.
// The first slide that cannot be matched or populated aborts the whole deck.
func (a *Assembler) Assemble(o *types.Outline, catalog *types.LayoutCatalog) (*types.Deck, error) {
	if o == nil || len(o.Slides) == 0 {
		return nil, &outline.EmptyOutlineError{}
	}

	var layouts []types.LayoutCatalogEntry
	var theme string
	if catalog != nil {
		layouts = catalog.Layouts
		theme = catalog.Theme
	}

	slides := make([]types.PopulatedSlide, 0, len(o.Slides))
	var warnings []types.Warning

	for i, slide := range o.Slides {
		match, err := a.matcher.Match(i, slide, layouts)
		if err != nil {
			return nil, &SlideError{SlideIndex: i, Stage: StageMatch, Cause: err}
		}

		result, err := a.populator.Populate(i, slide, match)
		if err != nil {
			return nil, &SlideError{SlideIndex: i, Stage: StagePopulate, Cause: err}
		}

		slides = append(slides, result.Slide)
		warnings = append(warnings, result.Warnings...)
	}

	return finish(o, theme, slides, warnings), nil
}

// finish is the deck-wide pass: it carries over deck metadata and tallies layout
// usage without touching the populated slides.
func finish(o *types.Outline, theme string, slides []types.PopulatedSlide, warnings []types.Warning) *types.Deck {
	var usage []types.LayoutUsage
	seen := make(map[int]int)
	for _, s := range slides {
		if pos, ok := seen[s.Layout.CatalogIndex]; ok {
			usage[pos].Slides++
			continue
		}
		seen[s.Layout.CatalogIndex] = len(usage)
		usage = append(usage, types.LayoutUsage{Layout: s.Layout.Name, Slides: 1})
	}

	return &types.Deck{
		Title:       o.Title,
		Subtitle:    o.Subtitle,
		Theme:       theme,
		Slides:      slides,
		Warnings:    warnings,
		LayoutUsage: usage,
	}
}

// Assemble is a convenience wrapper around New(opts).Assemble
func Assemble(o *types.Outline, catalog *types.LayoutCatalog, opts Options) (*types.Deck, error) {
	return New(opts).Assemble(o, catalog)
}
