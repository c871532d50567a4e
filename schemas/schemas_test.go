package schemas_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-profiler/internal/schemas"
	schemafiles "github.com/jonathan/resume-profiler/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		schemafiles.ProfileCandidateFile,
		schemafiles.ParsingResultFile,
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.Equal(t, "object", schemaObj["type"])
			assert.Contains(t, schemaObj, "properties")
		})
	}
}

func TestEmbeddedMatchesDisk(t *testing.T) {
	assert.Equal(t, []string{schemafiles.ParsingResultFile, schemafiles.ProfileCandidateFile}, schemafiles.Names())

	for _, name := range schemafiles.Names() {
		embedded, err := schemafiles.Read(name)
		require.NoError(t, err)
		onDisk, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, onDisk, embedded)
	}
}

func TestProfileCandidateSchema_AcceptsPartialPayloads(t *testing.T) {
	data, err := schemafiles.Read(schemafiles.ProfileCandidateFile)
	require.NoError(t, err)

	payloads := []string{
		`{}`,
		`{"skills": ["Go", "SQL"]}`,
		`{"personalInfo": {"fullName": "Jane Doe", "bio": null}}`,
		`{"education": [{"institution": "MIT", "year": "2020-2024"}], "certifications": []}`,
	}
	for _, payload := range payloads {
		assert.NoError(t, schemas.ValidateJSONString(string(data), payload), payload)
	}

	assert.Error(t, schemas.ValidateJSONString(string(data), `{"skills": "Go"}`))
	assert.Error(t, schemas.ValidateJSONString(string(data), `{"education": [{"year": 2024}]}`))
}
