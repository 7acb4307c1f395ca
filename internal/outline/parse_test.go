package outline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/deck-builder/internal/schemas"
	"github.com/jonathan/deck-builder/internal/types"
)

func TestParse_ModelResponse(t *testing.T) {
	response := "```json\n" + `{
		"presentation_title": "Onboarding",
		"slides": [
			{"slide_type": "title", "title": "Onboarding", "subtitle": "Week one"},
			{"slide_type": "content", "title": "Agenda", "bullets": ["Accounts", {"text": "Laptop", "level": 1}, "Team lunch"], "notes": "Keep it light"}
		]
	}` + "\n```"

	out, err := Parse([]byte(response))
	require.NoError(t, err)

	assert.Equal(t, "Onboarding", out.Title)
	require.Len(t, out.Slides, 2)
	assert.Equal(t, types.HintTitleOnly, out.Slides[0].ContentHint)
	assert.Equal(t, "Week one", out.Slides[0].Subtitle)
	assert.Equal(t, types.HintBullets, out.Slides[1].ContentHint)
	assert.Equal(t, []types.BulletItem{
		{Text: "Accounts", Level: 0},
		{Text: "Laptop", Level: 1},
		{Text: "Team lunch", Level: 0},
	}, out.Slides[1].Bullets)
}

func TestParse_EmptySlidesIsEmptyOutline(t *testing.T) {
	_, err := Parse([]byte(`{"presentation_title": "Nothing", "slides": []}`))

	var emptyErr *EmptyOutlineError
	assert.True(t, errors.As(err, &emptyErr))
}

func TestParse_SkippedLevelIsMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"slides": [{"title": "A", "bullets": [{"text": "x", "level": 0}, {"text": "y", "level": 2}]}]}`))

	var malformed *MalformedOutlineError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 0, malformed.SlideIndex)
}

func TestParseRaw_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantSchema bool
	}{
		{name: "empty", input: "  "},
		{name: "not json", input: "I could not produce slides"},
		{name: "wrong shape", input: `{"slides": [{"title": 42}]}`, wantSchema: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseRaw([]byte(tt.input))
			assert.Nil(t, raw)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)

			if tt.wantSchema {
				var validationErr *schemas.ValidationError
				assert.True(t, errors.As(err, &validationErr))
			}
		})
	}
}
