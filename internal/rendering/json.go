package rendering

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jonathan/deck-builder/internal/types"
)

// WriteJSON writes the deck as indented JSON
func WriteJSON(w io.Writer, deck *types.Deck) error {
	if deck == nil {
		return &RenderError{Message: "deck is nil"}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(deck); err != nil {
		return &RenderError{Message: "failed to encode deck", Cause: err}
	}
	return nil
}

// WriteJSONFile writes the deck as indented JSON to path
func WriteJSONFile(path string, deck *types.Deck) error {
	f, err := os.Create(path)
	if err != nil {
		return &RenderError{Message: "failed to create " + path, Cause: err}
	}
	if err := WriteJSON(f, deck); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
