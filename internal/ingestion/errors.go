package ingestion

import "fmt"

// DocumentError represents a failure of the document collaborator to yield text runs
type DocumentError struct {
	Source  string
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("document %s: %s", e.Source, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}
