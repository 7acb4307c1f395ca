// Package populate maps outline slide content onto the placeholders of a matched layout.
package populate

import "fmt"

// MissingTitleError is returned when a slide that needs a title has none
type MissingTitleError struct {
	SlideIndex int
}

func (e *MissingTitleError) Error() string {
	return fmt.Sprintf("slide %d: title is required but empty", e.SlideIndex)
}
