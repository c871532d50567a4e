// Package classifier implements the remote classifiers consulted by the
// parser: a plain HTTP endpoint and a Gemini-backed one.
package classifier

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-profiler/internal/schemas"
	"github.com/jonathan/resume-profiler/internal/types"
)

// DecodeCandidate validates a classifier payload against the candidate schema
// and decodes it. Any failure is a *ParseError.
func DecodeCandidate(payload string) (*types.ProfileCandidate, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, &ParseError{Message: "empty response"}
	}

	if err := schemas.ValidateCandidate(payload); err != nil {
		return nil, &ParseError{Message: "response does not match candidate schema", Cause: err}
	}

	var candidate types.ProfileCandidate
	if err := json.Unmarshal([]byte(payload), &candidate); err != nil {
		return nil, &ParseError{Message: "failed to decode candidate", Cause: err}
	}

	return &candidate, nil
}
