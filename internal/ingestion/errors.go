package ingestion

import "fmt"

// UnsupportedFormatError is returned for source files with an extension no extractor handles
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported source format for %s: no file extension", e.Path)
	}
	return fmt.Sprintf("unsupported source format %q for %s", e.Extension, e.Path)
}

// ExtractionError is returned when a supported source cannot be read
type ExtractionError struct {
	Source  string
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract %s content from %s: %s: %v", e.Format, e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract %s content from %s: %s", e.Format, e.Source, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
