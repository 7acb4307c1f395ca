// Package outline builds and validates the slide outline produced by the language model.
package outline

import "fmt"

// EmptyOutlineError is returned when the outline contains no slides
type EmptyOutlineError struct{}

func (e *EmptyOutlineError) Error() string {
	return "outline error: outline has no slides"
}

// MalformedOutlineError is returned when a slide violates the outline structure rules
type MalformedOutlineError struct {
	SlideIndex int
	Reason     string
}

func (e *MalformedOutlineError) Error() string {
	return fmt.Sprintf("outline error: slide %d: %s", e.SlideIndex, e.Reason)
}

// ParseError is returned when raw model output cannot be read as an outline at all
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("outline parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("outline parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
