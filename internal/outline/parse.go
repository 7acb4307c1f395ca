package outline

import (
	"encoding/json"

	"github.com/jonathan/deck-builder/internal/llm"
	"github.com/jonathan/deck-builder/internal/schemas"
	"github.com/jonathan/deck-builder/internal/types"
)

// ParseRaw decodes model output into a RawOutline after stripping code fences
// and checking it against the embedded outline schema.
func ParseRaw(data []byte) (*types.RawOutline, error) {
	cleaned := llm.CleanJSONBlock(string(data))
	if cleaned == "" {
		return nil, &ParseError{Message: "response is empty"}
	}

	if err := schemas.ValidateEmbedded(schemas.OutlineSchema, cleaned); err != nil {
		return nil, &ParseError{Message: "outline does not match schema", Cause: err}
	}

	var raw types.RawOutline
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &ParseError{Message: "failed to decode outline JSON", Cause: err}
	}

	return &raw, nil
}

// Parse decodes and validates model output in one step
func Parse(data []byte) (*types.Outline, error) {
	raw, err := ParseRaw(data)
	if err != nil {
		return nil, err
	}
	return Build(raw)
}
