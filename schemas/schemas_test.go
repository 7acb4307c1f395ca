package schemas_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/deck-builder/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	"outline.schema.json",
	"catalog.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			_, hasSchema := schemaObj["$schema"]
			_, hasProps := schemaObj["properties"]
			assert.True(t, hasSchema && hasProps, "schema should declare $schema and properties")
		})
	}
}

func TestOutlineSchema_AcceptsModelOutput(t *testing.T) {
	doc := `{
		"presentation_title": "Quarterly Review",
		"slides": [
			{"slide_type": "title", "title": "Quarterly Review", "subtitle": "Q3"},
			{"slide_type": "content", "title": "Highlights", "bullets": ["Revenue up", {"text": "EMEA", "level": 1}], "notes": "Keep it short"}
		]
	}`

	assert.NoError(t, schemas.ValidateEmbedded(schemas.OutlineSchema, doc))
}

func TestOutlineSchema_RejectsWrongTypes(t *testing.T) {
	doc := `{"slides": [{"title": 3, "bullets": [true]}]}`

	err := schemas.ValidateEmbedded(schemas.OutlineSchema, doc)
	require.Error(t, err)

	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestCatalogSchema_RejectsUnknownRole(t *testing.T) {
	doc := `{"layouts": [{"name": "Odd", "placeholders": [{"role": "FOOTER", "index": 0}]}]}`

	err := schemas.ValidateEmbedded(schemas.CatalogSchema, doc)
	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
