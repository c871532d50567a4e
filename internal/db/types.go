package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-profiler/internal/types"
)

// StoredResult is a persisted extraction result
type StoredResult struct {
	ID         uuid.UUID           `json:"id"`
	UserID     uuid.UUID           `json:"user_id"`
	SourceName string              `json:"source_name"`
	Result     types.ParsingResult `json:"result"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ResultSummary is a lightweight view of a stored result for listing
type ResultSummary struct {
	ID         uuid.UUID `json:"id"`
	SourceName string    `json:"source_name"`
	Confidence int       `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// DefaultListLimit bounds ListResults when no limit is given
const DefaultListLimit = 50

// MaxListLimit is the largest page ListResults returns
const MaxListLimit = 200
