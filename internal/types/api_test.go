package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ExtractRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  ExtractRequest{Pages: []Page{{{Text: "Jane Doe", BaselineY: 700, X: 50}}}},
		},
		{
			name: "empty pages allowed",
			req:  ExtractRequest{Pages: []Page{}},
		},
		{
			name:    "missing pages",
			req:     ExtractRequest{},
			wantErr: true,
		},
		{
			name:    "too many pages",
			req:     ExtractRequest{Pages: make([]Page, 201)},
			wantErr: true,
		},
		{
			name:    "oversized run",
			req:     ExtractRequest{Pages: []Page{{{Text: strings.Repeat("a", 10001)}}}},
			wantErr: true,
		},
		{
			name:    "long source name",
			req:     ExtractRequest{Pages: []Page{}, SourceName: strings.Repeat("x", 256)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
