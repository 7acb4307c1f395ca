package templates

import "fmt"

// AnalysisError is returned when a template or catalog file cannot be turned into a catalog
type AnalysisError struct {
	Path    string
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template analysis failed for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("template analysis failed for %s: %s", e.Path, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
