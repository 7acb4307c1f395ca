package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawBullet_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RawBullet
		wantErr  bool
	}{
		{name: "bare string", input: `"Revenue up"`, expected: RawBullet{Text: "Revenue up"}},
		{name: "object", input: `{"text": "Detail", "level": 2}`, expected: RawBullet{Text: "Detail", Level: 2}},
		{name: "object without level", input: `{"text": "Top"}`, expected: RawBullet{Text: "Top"}},
		{name: "number", input: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b RawBullet
			err := json.Unmarshal([]byte(tt.input), &b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b)
		})
	}
}

func TestRawOutline_MixedBullets(t *testing.T) {
	input := `{
		"presentation_title": "Quarterly Review",
		"slides": [
			{"title": "Results", "bullets": ["Up 10%", {"text": "EMEA led", "level": 1}]}
		]
	}`

	var raw RawOutline
	require.NoError(t, json.Unmarshal([]byte(input), &raw))
	assert.Equal(t, "Quarterly Review", raw.PresentationTitle)
	require.Len(t, raw.Slides, 1)
	assert.Equal(t, []RawBullet{{Text: "Up 10%"}, {Text: "EMEA led", Level: 1}}, raw.Slides[0].Bullets)
}

func TestImageSpec_Label(t *testing.T) {
	var nilImage *ImageSpec
	assert.Empty(t, nilImage.Label())
	assert.Equal(t, "Chart", (&ImageSpec{Caption: "Chart", Alt: "alt"}).Label())
	assert.Equal(t, "alt", (&ImageSpec{Alt: "alt"}).Label())
}
