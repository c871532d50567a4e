package types

import (
	"github.com/go-playground/validator/v10"
)

// ExtractRequest is the JSON body of POST /extractions
type ExtractRequest struct {
	Pages      []Page `json:"pages" validate:"required,max=200,dive,max=20000,dive"`
	SourceName string `json:"sourceName,omitempty" validate:"max=255"`
}

// Validate validates the ExtractRequest using the validator.
func (r *ExtractRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ExtractResponse wraps a result with its display tier and, when stored, its ID
type ExtractResponse struct {
	ID              string         `json:"id,omitempty"`
	Result          ParsingResult  `json:"result"`
	ConfidenceTier  ConfidenceTier `json:"confidenceTier"`
	ConfidenceLabel string         `json:"confidenceLabel"`
}
