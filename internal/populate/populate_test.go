package populate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/deck-builder/internal/matching"
	"github.com/jonathan/deck-builder/internal/types"
)

func slot(role types.PlaceholderRole, index int) types.PlaceholderSlot {
	return types.PlaceholderSlot{Role: role, Index: index}
}

func matchFor(slide types.SlideSpec, entry types.LayoutCatalogEntry) *matching.MatchResult {
	return &matching.MatchResult{
		Entry:    entry,
		Required: matching.RequiredRoles(slide.ContentHint),
	}
}

func flatBullets(n int) []types.BulletItem {
	out := make([]types.BulletItem, n)
	for i := range out {
		out[i] = types.BulletItem{Text: fmt.Sprintf("point %d", i+1)}
	}
	return out
}

func TestPopulate_TitleOnly(t *testing.T) {
	slide := types.SlideSpec{Title: "Intro", ContentHint: types.HintTitleOnly}
	entry := types.LayoutCatalogEntry{Name: "TitleOnly", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0)}}

	result, err := NewPopulator(DefaultOptions()).Populate(0, slide, matchFor(slide, entry))
	require.NoError(t, err)

	assert.Empty(t, result.Warnings)
	assert.Equal(t, "TitleOnly", result.Slide.Layout.Name)
	require.Len(t, result.Slide.Fills, 1)
	assert.Equal(t, types.Fill{Role: types.RoleTitle, Index: 0, Text: "Intro"}, result.Slide.Fills[0])
}

func TestPopulate_BulletsWithoutNotesSlot(t *testing.T) {
	slide := types.SlideSpec{
		Title:       "Agenda",
		Bullets:     []types.BulletItem{{Text: "A"}, {Text: "B"}, {Text: "C"}},
		Notes:       "n/a",
		ContentHint: types.HintBullets,
	}
	entry := types.LayoutCatalogEntry{Name: "Content", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0), slot(types.RoleBody, 1)}}

	result, err := NewPopulator(DefaultOptions()).Populate(0, slide, matchFor(slide, entry))
	require.NoError(t, err)

	assert.Empty(t, result.Warnings, "a missing notes slot is not a warning")

	title, ok := result.Slide.Lookup(types.RoleTitle, 0)
	require.True(t, ok)
	assert.Equal(t, "Agenda", title.Text)

	body, ok := result.Slide.Lookup(types.RoleBody, 1)
	require.True(t, ok)
	assert.Equal(t, []types.Paragraph{{Text: "A"}, {Text: "B"}, {Text: "C"}}, body.Paragraphs)

	_, ok = result.Slide.Lookup(types.RoleNotes, 0)
	assert.False(t, ok)
}

func TestPopulate_PreservesLevelsAndFillsOptionalSlots(t *testing.T) {
	slide := types.SlideSpec{
		Title:       "Results",
		Subtitle:    "Q3",
		Bullets:     []types.BulletItem{{Text: "Revenue", Level: 0}, {Text: "EMEA", Level: 1}, {Text: "APAC", Level: 1}},
		Notes:       "Mention the one-off.",
		ContentHint: types.HintBullets,
	}
	entry := types.LayoutCatalogEntry{Name: "Rich", Placeholders: []types.PlaceholderSlot{
		slot(types.RoleNotes, 3), slot(types.RoleTitle, 0), slot(types.RoleSubtitle, 2), slot(types.RoleBody, 1), slot(types.RoleOther, 10),
	}}

	result, err := NewPopulator(DefaultOptions()).Populate(2, slide, matchFor(slide, entry))
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	roles := make([]types.PlaceholderRole, 0, len(result.Slide.Fills))
	for _, f := range result.Slide.Fills {
		roles = append(roles, f.Role)
	}
	assert.Equal(t, []types.PlaceholderRole{types.RoleNotes, types.RoleTitle, types.RoleSubtitle, types.RoleBody}, roles, "fills follow layout order")

	body, _ := result.Slide.Lookup(types.RoleBody, 1)
	assert.Equal(t, []types.Paragraph{{Text: "Revenue", Level: 0}, {Text: "EMEA", Level: 1}, {Text: "APAC", Level: 1}}, body.Paragraphs)

	notes, _ := result.Slide.Lookup(types.RoleNotes, 3)
	assert.Equal(t, "Mention the one-off.", notes.Text)

	subtitle, _ := result.Slide.Lookup(types.RoleSubtitle, 2)
	assert.Equal(t, "Q3", subtitle.Text)
	assert.Equal(t, 2, result.Slide.Index)
}

func TestPopulate_Truncation(t *testing.T) {
	entry := types.LayoutCatalogEntry{Name: "Content", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0), slot(types.RoleBody, 1)}}

	tests := []struct {
		name          string
		bullets       int
		threshold     int
		wantEntries   int
		wantTruncated bool
	}{
		{name: "under threshold", bullets: 4, threshold: 5, wantEntries: 4},
		{name: "at threshold", bullets: 5, threshold: 5, wantEntries: 5},
		{name: "over threshold", bullets: 9, threshold: 5, wantEntries: 5, wantTruncated: true},
		{name: "default threshold", bullets: 12, threshold: DefaultMaxBodyBullets, wantEntries: DefaultMaxBodyBullets, wantTruncated: true},
		{name: "disabled", bullets: 30, threshold: 0, wantEntries: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slide := types.SlideSpec{Title: "Many", Bullets: flatBullets(tt.bullets), ContentHint: types.HintBullets}
			p := NewPopulator(Options{MaxBodyBullets: tt.threshold})

			result, err := p.Populate(0, slide, matchFor(slide, entry))
			require.NoError(t, err)

			body, ok := result.Slide.Lookup(types.RoleBody, 1)
			require.True(t, ok)
			assert.Len(t, body.Paragraphs, tt.wantEntries)
			assert.Equal(t, tt.wantTruncated, result.Slide.Truncated)

			if !tt.wantTruncated {
				assert.Empty(t, result.Warnings)
				return
			}
			require.Len(t, result.Warnings, 1)
			assert.Equal(t, types.WarningTruncation, result.Warnings[0].Kind)
			assert.Equal(t, DefaultContinuationText, body.Paragraphs[tt.wantEntries-1].Text)
			assert.Equal(t, "point 1", body.Paragraphs[0].Text)
			assert.Equal(t, fmt.Sprintf("point %d", tt.wantEntries-1), body.Paragraphs[tt.wantEntries-2].Text)
			assert.Len(t, slide.Bullets, tt.bullets, "input must not be modified")
		})
	}
}

func TestPopulate_MultipleBodySlots(t *testing.T) {
	slide := types.SlideSpec{
		Title: "Compare",
		Bullets: []types.BulletItem{
			{Text: "Option A", Level: 0}, {Text: "cheap", Level: 1},
			{Text: "Option B", Level: 0}, {Text: "fast", Level: 1},
			{Text: "Option C", Level: 0},
		},
		ContentHint: types.HintBullets,
	}
	entry := types.LayoutCatalogEntry{Name: "Two Content", Placeholders: []types.PlaceholderSlot{
		slot(types.RoleTitle, 0), slot(types.RoleBody, 2), slot(types.RoleBody, 1),
	}}

	result, err := NewPopulator(Options{MaxBodyBullets: 2}).Populate(0, slide, matchFor(slide, entry))
	require.NoError(t, err)
	assert.Empty(t, result.Warnings, "truncation only applies to a single body slot")

	first, ok := result.Slide.Lookup(types.RoleBody, 1)
	require.True(t, ok)
	assert.Equal(t, []types.Paragraph{{Text: "Option A", Level: 0}, {Text: "cheap", Level: 1}}, first.Paragraphs)

	last, ok := result.Slide.Lookup(types.RoleBody, 2)
	require.True(t, ok)
	assert.Equal(t, []types.Paragraph{
		{Text: "Option B", Level: 0}, {Text: "fast", Level: 1}, {Text: "Option C", Level: 0},
	}, last.Paragraphs, "overflow is concatenated into the last slot")
}

func TestPopulate_Image(t *testing.T) {
	image := &types.ImageSpec{Path: "chart.png", Caption: "Growth by quarter", Alt: "bar chart"}
	slide := types.SlideSpec{Title: "Chart", Image: image, Bullets: []types.BulletItem{{Text: "Up 12%"}}, ContentHint: types.HintImage}

	t.Run("image slot", func(t *testing.T) {
		entry := types.LayoutCatalogEntry{Name: "Picture", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0), slot(types.RoleImage, 1), slot(types.RoleBody, 2)}}

		result, err := NewPopulator(DefaultOptions()).Populate(0, slide, matchFor(slide, entry))
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)

		pic, ok := result.Slide.Lookup(types.RoleImage, 1)
		require.True(t, ok)
		assert.Equal(t, &types.ImageRef{Path: "chart.png", Caption: "Growth by quarter", Alt: "bar chart"}, pic.Image)

		body, _ := result.Slide.Lookup(types.RoleBody, 2)
		assert.Equal(t, []types.Paragraph{{Text: "Up 12%"}}, body.Paragraphs)
	})

	t.Run("demoted into body", func(t *testing.T) {
		entry := types.LayoutCatalogEntry{Name: "Content", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0), slot(types.RoleBody, 1)}}

		result, err := NewPopulator(DefaultOptions()).Populate(3, slide, matchFor(slide, entry))
		require.NoError(t, err)

		require.Len(t, result.Warnings, 1)
		assert.Equal(t, types.WarningImageDemoted, result.Warnings[0].Kind)
		assert.Equal(t, 3, result.Warnings[0].SlideIndex)

		body, _ := result.Slide.Lookup(types.RoleBody, 1)
		assert.Equal(t, []types.Paragraph{{Text: "Up 12%"}, {Text: "Growth by quarter"}}, body.Paragraphs)
	})

	t.Run("dropped without body", func(t *testing.T) {
		imageOnly := types.SlideSpec{Title: "Chart", Image: image, ContentHint: types.HintImage}
		entry := types.LayoutCatalogEntry{Name: "Title Only", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0)}}

		result, err := NewPopulator(DefaultOptions()).Populate(0, imageOnly, matchFor(imageOnly, entry))
		require.NoError(t, err)

		require.Len(t, result.Warnings, 1)
		assert.Equal(t, types.WarningImageDropped, result.Warnings[0].Kind)
		assert.Len(t, result.Slide.Fills, 1)
	})
}

func TestPopulate_TextOnly(t *testing.T) {
	slide := types.SlideSpec{Title: "Why", Notes: "Because it matters.\nAnd it is cheap.", ContentHint: types.HintTextOnly}

	t.Run("notes become body text", func(t *testing.T) {
		entry := types.LayoutCatalogEntry{Name: "Content", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0), slot(types.RoleBody, 1)}}

		result, err := NewPopulator(DefaultOptions()).Populate(0, slide, matchFor(slide, entry))
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)

		body, _ := result.Slide.Lookup(types.RoleBody, 1)
		assert.Equal(t, []types.Paragraph{{Text: "Because it matters."}, {Text: "And it is cheap."}}, body.Paragraphs)
	})

	t.Run("no body slot is silent", func(t *testing.T) {
		entry := types.LayoutCatalogEntry{Name: "Title Only", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0)}}

		result, err := NewPopulator(DefaultOptions()).Populate(0, slide, matchFor(slide, entry))
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
	})
}

func TestPopulate_BulletsDroppedWithoutBodySlot(t *testing.T) {
	slide := types.SlideSpec{Title: "Agenda", Bullets: flatBullets(2), ContentHint: types.HintBullets}
	entry := types.LayoutCatalogEntry{Name: "Title Only", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0)}}

	result, err := NewPopulator(DefaultOptions()).Populate(0, slide, matchFor(slide, entry))
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.WarningBodyDropped, result.Warnings[0].Kind)
}

func TestPopulate_MissingTitle(t *testing.T) {
	slide := types.SlideSpec{ContentHint: types.HintTitleOnly}
	entry := types.LayoutCatalogEntry{Name: "TitleOnly", Placeholders: []types.PlaceholderSlot{slot(types.RoleTitle, 0)}}

	result, err := NewPopulator(DefaultOptions()).Populate(7, slide, matchFor(slide, entry))
	assert.Nil(t, result)

	var missing *MissingTitleError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 7, missing.SlideIndex)
}

func TestPopulate_StableIDs(t *testing.T) {
	assert.Equal(t, SlideID(1, "Agenda"), SlideID(1, "Agenda"))
	assert.NotEqual(t, SlideID(1, "Agenda"), SlideID(2, "Agenda"))
	assert.NotEqual(t, SlideID(1, "Agenda"), SlideID(1, "Summary"))
}
