package outline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/deck-builder/internal/types"
)

func bullets(levels ...int) []types.RawBullet {
	out := make([]types.RawBullet, len(levels))
	for i, level := range levels {
		out[i] = types.RawBullet{Text: "point", Level: level}
	}
	return out
}

func TestBuild_Empty(t *testing.T) {
	tests := []struct {
		name string
		raw  *types.RawOutline
	}{
		{name: "nil outline", raw: nil},
		{name: "no slides", raw: &types.RawOutline{PresentationTitle: "Deck"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Build(tt.raw)
			assert.Nil(t, out)

			var emptyErr *EmptyOutlineError
			assert.True(t, errors.As(err, &emptyErr))
		})
	}
}

func TestBuild_BulletNesting(t *testing.T) {
	tests := []struct {
		name    string
		levels  []int
		wantErr bool
	}{
		{name: "flat", levels: []int{0, 0, 0}},
		{name: "one step deeper", levels: []int{0, 1, 1, 0}},
		{name: "deep then back out", levels: []int{0, 1, 2, 0}},
		{name: "skips a level", levels: []int{0, 2}, wantErr: true},
		{name: "starts nested", levels: []int{1, 1}, wantErr: true},
		{name: "negative level", levels: []int{0, -1}, wantErr: true},
		{name: "skip after return", levels: []int{0, 1, 0, 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &types.RawOutline{Slides: []types.RawSlide{
				{Title: "Fine"},
				{Title: "Checked", Bullets: bullets(tt.levels...)},
			}}

			out, err := Build(raw)
			if !tt.wantErr {
				require.NoError(t, err)
				require.Len(t, out.Slides, 2)
				assert.Len(t, out.Slides[1].Bullets, len(tt.levels))
				return
			}

			var malformed *MalformedOutlineError
			require.True(t, errors.As(err, &malformed), "expected MalformedOutlineError, got %v", err)
			assert.Equal(t, 1, malformed.SlideIndex)
			assert.Contains(t, err.Error(), "slide 1")
		})
	}
}

func TestBuild_RejectsEmptyTitle(t *testing.T) {
	_, err := Build(&types.RawOutline{Slides: []types.RawSlide{{Title: "   "}}})
	var malformed *MalformedOutlineError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 0, malformed.SlideIndex)
	assert.Contains(t, malformed.Reason, "title")
}

func TestBuild_BlankBulletsDropped(t *testing.T) {
	tests := []struct {
		name    string
		bullets []types.RawBullet
		want    []types.BulletItem
		hint    types.ContentHint
	}{
		{
			name:    "trailing blank",
			bullets: []types.RawBullet{{Text: "ok"}, {Text: "  "}},
			want:    []types.BulletItem{{Text: "ok"}},
			hint:    types.HintBullets,
		},
		{
			name:    "blank between levels",
			bullets: []types.RawBullet{{Text: "parent"}, {Text: "", Level: 1}, {Text: " child ", Level: 1}},
			want:    []types.BulletItem{{Text: "parent"}, {Text: "child", Level: 1}},
			hint:    types.HintBullets,
		},
		{
			name:    "only blanks",
			bullets: []types.RawBullet{{Text: ""}, {Text: "\t"}},
			hint:    types.HintTitleOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Build(&types.RawOutline{Slides: []types.RawSlide{
				{Title: "A"},
				{Title: "C", Bullets: tt.bullets},
			}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.Slides[1].Bullets)
			assert.Equal(t, tt.hint, o.Slides[1].ContentHint)
		})
	}
}

func TestBuild_BlankBulletDoesNotHideLevelSkip(t *testing.T) {
	_, err := Build(&types.RawOutline{Slides: []types.RawSlide{
		{Title: "C", Bullets: []types.RawBullet{{Text: "top"}, {Text: " ", Level: 1}, {Text: "deep", Level: 2}}},
	}})
	var malformed *MalformedOutlineError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 0, malformed.SlideIndex)
	assert.Contains(t, malformed.Reason, "skips from level 0 to level 2")
}

func TestBuild_ContentHint(t *testing.T) {
	tests := []struct {
		name  string
		slide types.RawSlide
		want  types.ContentHint
	}{
		{
			name:  "title only",
			slide: types.RawSlide{Title: "Intro"},
			want:  types.HintTitleOnly,
		},
		{
			name:  "title and notes",
			slide: types.RawSlide{Title: "Why", Notes: "Because."},
			want:  types.HintTextOnly,
		},
		{
			name:  "bullets",
			slide: types.RawSlide{Title: "Agenda", Bullets: bullets(0, 0), Notes: "n/a"},
			want:  types.HintBullets,
		},
		{
			name:  "image wins over bullets",
			slide: types.RawSlide{Title: "Chart", Bullets: bullets(0), Image: &types.RawImage{Description: "Growth"}},
			want:  types.HintImage,
		},
		{
			name:  "empty image marker is ignored",
			slide: types.RawSlide{Title: "Chart", Image: &types.RawImage{}},
			want:  types.HintTitleOnly,
		},
		{
			name:  "blank notes are not notes",
			slide: types.RawSlide{Title: "Blank", Notes: " \n \n"},
			want:  types.HintTitleOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Build(&types.RawOutline{Slides: []types.RawSlide{tt.slide}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Slides[0].ContentHint)
		})
	}
}

func TestBuild_NormalisesFields(t *testing.T) {
	raw := &types.RawOutline{
		PresentationTitle:    "  Quarterly Review ",
		PresentationSubtitle: "Q3",
		Slides: []types.RawSlide{{
			SlideType: " Content ",
			Title:     " Results ",
			Subtitle:  " by region ",
			Bullets:   []types.RawBullet{{Text: " Revenue ", Level: 0}, {Text: "EMEA", Level: 1}},
			Notes:     "  first line  \n\n   second line\n",
			Image:     &types.RawImage{Path: " chart.png ", Alt: "bar chart"},
		}},
	}

	out, err := Build(raw)
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Review", out.Title)
	assert.Equal(t, "Q3", out.Subtitle)

	slide := out.Slides[0]
	assert.Equal(t, "content", slide.Kind)
	assert.Equal(t, "Results", slide.Title)
	assert.Equal(t, "by region", slide.Subtitle)
	assert.Equal(t, []types.BulletItem{{Text: "Revenue", Level: 0}, {Text: "EMEA", Level: 1}}, slide.Bullets)
	assert.Equal(t, "first line\nsecond line", slide.Notes)
	require.NotNil(t, slide.Image)
	assert.Equal(t, "chart.png", slide.Image.Path)
	assert.Equal(t, "bar chart", slide.Image.Label())
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	raw := &types.RawOutline{Slides: []types.RawSlide{{Title: " Keep ", Bullets: []types.RawBullet{{Text: " x "}}}}}

	_, err := Build(raw)
	require.NoError(t, err)
	assert.Equal(t, " Keep ", raw.Slides[0].Title)
	assert.Equal(t, " x ", raw.Slides[0].Bullets[0].Text)
}

func TestFormatNotes(t *testing.T) {
	assert.Equal(t, "", FormatNotes(""))
	assert.Equal(t, "a\nb", FormatNotes("a\r\n\r\n  b  "))
	assert.Equal(t, "", FormatNotes("   \n\t\n"))
}
