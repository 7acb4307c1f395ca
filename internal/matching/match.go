package matching

import "github.com/jonathan/deck-builder/internal/types"

// DefaultRichnessBonus is the score added per compatible optional slot
const DefaultRichnessBonus = 0.1

// Options tunes layout scoring
type Options struct {
	RichnessBonus float64
}

// DefaultOptions returns the default scoring options
func DefaultOptions() Options {
	return Options{RichnessBonus: DefaultRichnessBonus}
}

// MatchResult pairs a slide with the layout chosen for it
type MatchResult struct {
	Entry        types.LayoutCatalogEntry
	CatalogIndex int
	Required     []types.PlaceholderRole
	Confidence   int
	Score        float64
}

// Candidate is a catalog entry scored against one slide
type Candidate struct {
	CatalogIndex int
	Name         string
	Present      int
	Missing      int
	Extra        int
	Score        float64
	Usable       bool
}

// coverage is the required-role part of the score
func (c Candidate) coverage() int {
	return c.Present - c.Missing
}

// Matcher picks layouts deterministically
type Matcher struct {
	opts Options
}

// NewMatcher creates a Matcher; a negative bonus is treated as zero
func NewMatcher(opts Options) *Matcher {
	if opts.RichnessBonus < 0 {
		opts.RichnessBonus = 0
	}
	return &Matcher{opts: opts}
}

// RequiredRoles returns the roles a slide cannot be placed without
func RequiredRoles(hint types.ContentHint) []types.PlaceholderRole {
	switch hint {
	case types.HintTextOnly, types.HintBullets:
		return []types.PlaceholderRole{types.RoleTitle, types.RoleBody}
	case types.HintImage:
		return []types.PlaceholderRole{types.RoleTitle, types.RoleImage}
	default:
		return []types.PlaceholderRole{types.RoleTitle}
	}
}

// OptionalRoles returns roles the slide has content for beyond its required set
func OptionalRoles(slide types.SlideSpec) []types.PlaceholderRole {
	var roles []types.PlaceholderRole
	if slide.ContentHint == types.HintImage && (len(slide.Bullets) > 0 || slide.Image.Label() != "") {
		roles = append(roles, types.RoleBody)
	}
	if slide.Subtitle != "" {
		roles = append(roles, types.RoleSubtitle)
	}
	if slide.Notes != "" {
		roles = append(roles, types.RoleNotes)
	}
	return roles
}

// Explain scores every catalog entry for a slide, in catalog order
func (m *Matcher) Explain(slide types.SlideSpec, catalog []types.LayoutCatalogEntry) []Candidate {
	required := RequiredRoles(slide.ContentHint)
	optional := OptionalRoles(slide)

	candidates := make([]Candidate, 0, len(catalog))
	for i, entry := range catalog {
		candidates = append(candidates, m.score(i, entry, required, optional))
	}
	return candidates
}

// Match selects the layout for the slide at index. Layouts without a TITLE slot are never
// chosen. Among the rest, required-role coverage ranks first, then the optional-slot bonus,
// then catalog order, so identical inputs always give the same layout.
func (m *Matcher) Match(index int, slide types.SlideSpec, catalog []types.LayoutCatalogEntry) (*MatchResult, error) {
	required := RequiredRoles(slide.ContentHint)

	best := -1
	var bestCandidate Candidate
	for _, c := range m.Explain(slide, catalog) {
		if !c.Usable {
			continue
		}
		if best < 0 || m.better(c, bestCandidate) {
			best = c.CatalogIndex
			bestCandidate = c
		}
	}

	if best < 0 {
		return nil, &NoUsableLayoutError{
			SlideIndex: index,
			Required:   required,
			Unmet:      unmetRoles(required, catalog),
		}
	}

	return &MatchResult{
		Entry:        catalog[best],
		CatalogIndex: best,
		Required:     required,
		Confidence:   bestCandidate.Present,
		Score:        bestCandidate.Score,
	}, nil
}

func (m *Matcher) score(index int, entry types.LayoutCatalogEntry, required, optional []types.PlaceholderRole) Candidate {
	c := Candidate{CatalogIndex: index, Name: entry.Name}
	for _, role := range required {
		if entry.Has(role) {
			c.Present++
		} else {
			c.Missing++
		}
	}
	for _, role := range optional {
		c.Extra += len(entry.SlotsFor(role))
	}
	c.Usable = entry.Has(types.RoleTitle)
	c.Score = float64(c.coverage()) + m.opts.RichnessBonus*float64(c.Extra)
	return c
}

// better reports whether a should replace the current best b; ties keep b
func (m *Matcher) better(a, b Candidate) bool {
	if a.coverage() != b.coverage() {
		return a.coverage() > b.coverage()
	}
	return m.opts.RichnessBonus > 0 && a.Extra > b.Extra
}

func unmetRoles(required []types.PlaceholderRole, catalog []types.LayoutCatalogEntry) []types.PlaceholderRole {
	var unmet []types.PlaceholderRole
	for _, role := range required {
		found := false
		for _, entry := range catalog {
			if entry.Has(role) {
				found = true
				break
			}
		}
		if !found {
			unmet = append(unmet, role)
		}
	}
	return unmet
}
