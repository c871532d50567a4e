// Package schemas embeds the JSON Schema documents describing classifier
// payloads and extraction results.
package schemas

import (
	"embed"
	"sort"
)

// Schema file names
const (
	ProfileCandidateFile = "profile_candidate.schema.json"
	ParsingResultFile    = "parsing_result.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the content of an embedded schema file
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists the embedded schema files in sorted order
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}
