package generation

import "fmt"

// Error is returned when the model cannot produce a usable outline
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("outline generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("outline generation failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
