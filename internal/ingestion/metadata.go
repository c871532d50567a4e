package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// Metadata describes a document after line reconstruction and normalization
type Metadata struct {
	Source    string `json:"source,omitempty"` // File name or "upload"
	Timestamp string `json:"timestamp"`        // RFC3339 format
	Hash      string `json:"hash"`             // SHA256 hex digest of the normalized text
	Pages     int    `json:"pages"`
	Lines     int    `json:"lines"`
	Chars     int    `json:"chars"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(source string, pages int, normalized string) *Metadata {
	lines := 0
	if normalized != "" {
		lines = 1
		for _, r := range normalized {
			if r == '\n' {
				lines++
			}
		}
	}
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(normalized),
		Pages:     pages,
		Lines:     lines,
		Chars:     utf8.RuneCountInString(normalized),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
