// Package assembly turns a validated outline and a layout catalog into an ordered deck.
package assembly

import "fmt"

// Stage names the step that failed for a slide
type Stage string

// Stages of per-slide processing
const (
	StageMatch    Stage = "match"
	StagePopulate Stage = "populate"
)

// SlideError reports the slide that stopped assembly
type SlideError struct {
	SlideIndex int
	Stage      Stage
	Cause      error
}

func (e *SlideError) Error() string {
	return fmt.Sprintf("assembly failed at slide %d (%s): %v", e.SlideIndex, e.Stage, e.Cause)
}

func (e *SlideError) Unwrap() error {
	return e.Cause
}
