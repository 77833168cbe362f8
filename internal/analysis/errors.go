package analysis

import "fmt"

// ExtractionError represents a failed analysis run: the model call errored
// or returned output that could not be validated and decoded. No partial
// result is ever produced alongside it.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
