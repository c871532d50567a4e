package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-profiler/internal/classifier"
	"github.com/jonathan/resume-profiler/internal/config"
	"github.com/jonathan/resume-profiler/internal/llm"
	"github.com/jonathan/resume-profiler/internal/parsing"
	"github.com/jonathan/resume-profiler/internal/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractDocument(t *testing.T) {
	parser := parsing.NewParser(parsing.WithLogger(quietLogger()))

	out, err := extractDocument(context.Background(), parser, parsing.Options{}, filepath.Join("testdata", "resume.json"), quietLogger())
	require.NoError(t, err)

	assert.Equal(t, "resume.json", out.Source)
	assert.Equal(t, "Jane Doe", out.Result.Profile.PersonalInfo.FullName)
	assert.Equal(t, []string{"Education", "Experience", "Skills"}, out.Result.SectionsFound)

	require.NotNil(t, out.Metadata)
	assert.Equal(t, 1, out.Metadata.Pages)
	assert.Equal(t, 10, out.Metadata.Lines)
	assert.Len(t, out.Metadata.Hash, 64)
}

func TestExtractDocument_TooLittleText(t *testing.T) {
	parser := parsing.NewParser(parsing.WithLogger(quietLogger()))

	out, err := extractDocument(context.Background(), parser, parsing.Options{}, filepath.Join("testdata", "blank.json"), quietLogger())
	require.NoError(t, err)

	assert.Equal(t, 0, out.Result.Confidence)
	assert.Equal(t, []string{parsing.WarnExtractionFailed}, out.Result.Warnings)
}

func TestExtractDocument_OpenErrors(t *testing.T) {
	parser := parsing.NewParser(parsing.WithLogger(quietLogger()))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join("testdata", "missing.pdf")},
		{name: "unsupported extension", path: "main.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractDocument(context.Background(), parser, parsing.Options{}, tt.path, quietLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to open")
		})
	}
}

func TestWriteExtractOutput_Stdout(t *testing.T) {
	var stdout bytes.Buffer
	out := extractOutput{Source: "cv.pdf", Result: types.FailedResult(parsing.WarnExtractionFailed)}

	require.NoError(t, writeExtractOutput(&stdout, "", out, false, true))

	var decoded types.ParsingResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, out.Result, decoded)
}

func TestWriteExtractOutput_Directory(t *testing.T) {
	dir := t.TempDir()
	parser := parsing.NewParser(parsing.WithLogger(quietLogger()))
	out, err := extractDocument(context.Background(), parser, parsing.Options{}, filepath.Join("testdata", "resume.json"), quietLogger())
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, writeExtractOutput(&stdout, dir, out, true, true))

	assert.Contains(t, stdout.String(), "resume.profile.json")
	assert.FileExists(t, filepath.Join(dir, "resume.profile.json"))
	assert.FileExists(t, filepath.Join(dir, "resume.meta.json"))

	content, err := os.ReadFile(filepath.Join(dir, "resume.profile.json"))
	require.NoError(t, err)
	var decoded types.ParsingResult
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, out.Result.Confidence, decoded.Confidence)
}

func TestWriteExtractOutput_SchemaViolation(t *testing.T) {
	result := types.FailedResult("bad")
	result.Confidence = 140

	err := writeExtractOutput(io.Discard, "", extractOutput{Source: "cv.pdf", Result: result}, false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not validate against schema")

	assert.NoError(t, writeExtractOutput(io.Discard, "", extractOutput{Source: "cv.pdf", Result: result}, false, false))
}

func TestOutputBaseName(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"resume.pdf", "resume"},
		{"jane.doe.cv.json", "jane.doe.cv"},
		{"dir/resume.PDF", "resume"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, outputBaseName(tt.source))
		})
	}
}

func TestCheckOutputNames(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		wantErr bool
	}{
		{name: "distinct names", inputs: []string{"a/resume.pdf", "b/cv.json"}},
		{name: "single input", inputs: []string{"resume.pdf"}},
		{name: "same base different extension", inputs: []string{"a/resume.pdf", "b/resume.json"}, wantErr: true},
		{name: "same file twice", inputs: []string{"resume.pdf", "resume.pdf"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkOutputNames(tt.inputs)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, 2, exitCode(err))
			assert.Contains(t, err.Error(), "resume.profile.json")
		})
	}
}

func TestClassifierToken(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		expected string
	}{
		{name: "explicit token", cfg: config.Config{Classifier: config.ClassifierHTTP, ClassifierToken: "tok"}, expected: "tok"},
		{name: "http without token", cfg: config.Config{Classifier: config.ClassifierHTTP}, expected: ""},
		{name: "gemini falls back to api key", cfg: config.Config{Classifier: config.ClassifierGemini, APIKey: "key"}, expected: "key"},
		{name: "gemini prefers token", cfg: config.Config{Classifier: config.ClassifierGemini, APIKey: "key", ClassifierToken: "tok"}, expected: "tok"},
		{name: "local only", cfg: config.Config{APIKey: "key"}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifierToken(&tt.cfg))
		})
	}
}

func TestBuildClassifier(t *testing.T) {
	ctx := context.Background()

	remote, closeFn, err := buildClassifier(ctx, &config.Config{}, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, remote)
	assert.NotNil(t, closeFn)

	remote, closeFn, err = buildClassifier(ctx, &config.Config{Classifier: config.ClassifierHTTP, ClassifierURL: "http://localhost:9000/classify"}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &classifier.HTTPClassifier{}, remote)
	closeFn()

	_, _, err = buildClassifier(ctx, &config.Config{Classifier: config.ClassifierGemini}, quietLogger())
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(&usageError{Message: "--json is required"}))
	assert.Equal(t, 1, exitCode(assert.AnError))
}

func TestNewLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer

	newLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestExtractCommand_Stdout(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "extract", "--in", filepath.Join("testdata", "resume.json"))
	cmd.Env = append(os.Environ(), "CLASSIFIER_TOKEN=")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	var result types.ParsingResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, "jane.doe@example.com", result.Profile.PersonalInfo.Email)
}

func TestExtractCommand_Directory(t *testing.T) {
	binaryPath := getBinaryPath(t)
	outDir := t.TempDir()

	cmd := exec.Command(binaryPath, "extract",
		"--in", filepath.Join("testdata", "resume.json"),
		"--in", filepath.Join("testdata", "blank.json"),
		"--out", outDir,
		"--metadata",
	)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	for _, name := range []string{"resume.profile.json", "resume.meta.json", "blank.profile.json", "blank.meta.json"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestExtractCommand_UsageErrors(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no inputs", args: []string{"extract"}},
		{name: "several inputs without out", args: []string{"extract", "--in", "a.json", "--in", "b.json"}},
		{name: "colliding output names", args: []string{"extract", "--in", "a/resume.pdf", "--in", "b/resume.json", "--out", "out"}},
		{name: "unknown flag", args: []string{"extract", "--bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exec.Command(binaryPath, tt.args...).CombinedOutput()
			require.Error(t, err)
			if exitError, ok := err.(*exec.ExitError); ok {
				assert.Equal(t, 2, exitError.ExitCode())
			}
		})
	}
}
