package ingestion

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-profiler/internal/types"
)

// Source yields the positioned text runs of a document, page by page
type Source interface {
	Pages(ctx context.Context) ([]types.Page, error)
	Name() string
}

// JSONSource decodes pages encoded as [[{"text","baselineY","x"}, ...], ...]
type JSONSource struct {
	name string
	data []byte
}

// NewJSONSource creates a source over JSON-encoded pages
func NewJSONSource(name string, data []byte) *JSONSource {
	return &JSONSource{name: name, data: data}
}

// Name returns the document name
func (s *JSONSource) Name() string {
	return s.name
}

// Pages decodes the JSON payload
func (s *JSONSource) Pages(_ context.Context) ([]types.Page, error) {
	var pages []types.Page
	if err := json.Unmarshal(s.data, &pages); err != nil {
		return nil, &DocumentError{Source: s.name, Message: "invalid text run JSON", Cause: err}
	}
	return pages, nil
}

// StaticSource wraps pages that are already in memory
type StaticSource struct {
	name  string
	pages []types.Page
}

// NewStaticSource creates a source over in-memory pages
func NewStaticSource(name string, pages []types.Page) *StaticSource {
	return &StaticSource{name: name, pages: pages}
}

// Name returns the document name
func (s *StaticSource) Name() string {
	return s.name
}

// Pages returns the wrapped pages
func (s *StaticSource) Pages(_ context.Context) ([]types.Page, error) {
	return s.pages, nil
}

// OpenSource reads a document file and picks a source by extension:
// .pdf documents go through the PDF reader, .json files hold text runs.
func OpenSource(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &DocumentError{Source: path, Message: "file not found", Cause: err}
		}
		return nil, &DocumentError{Source: path, Message: "failed to read file", Cause: err}
	}

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFSource(name, data), nil
	case ".json":
		return NewJSONSource(name, data), nil
	default:
		return nil, &DocumentError{Source: path, Message: "unsupported file type: only .pdf and .json are allowed"}
	}
}
