package classifier

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/jonathan/resume-profiler/internal/extraction"
	"github.com/jonathan/resume-profiler/internal/llm"
	"github.com/jonathan/resume-profiler/internal/prompts"
	"github.com/jonathan/resume-profiler/internal/types"
)

const promptFile = "classification.json"

// candidateSchema lists the fields the model is asked to return
var candidateSchema = []llm.SchemaField{
	{
		Name: "personalInfo",
		Type: `{"fullName": "string", "email": "string", "phone": "string", "linkedinUrl": "string", "githubUrl": "string", "bio": "string", "languages": "string"}`,
	},
	{
		Name:        "education",
		Type:        `[{"institution": "string", "degree": "string", "year": "string", "score": "string"}]`,
		Description: "year as a 4-digit string",
	},
	{
		Name: "experience",
		Type: `[{"role": "string", "company": "string", "duration": "string", "description": "string"}]`,
	},
	{
		Name: "projects",
		Type: `[{"title": "string", "description": "string", "technologies": "string", "link": "string"}]`,
	},
	{
		Name: "skills",
		Type: `["string"]`,
	},
}

// GeminiClassifier asks a language model for a Profile-shaped candidate.
// The auth token is not forwarded; the client carries its own API key.
type GeminiClassifier struct {
	client llm.Client
	logger *slog.Logger
}

// NewGeminiClassifier creates a classifier over an llm.Client
func NewGeminiClassifier(client llm.Client, logger *slog.Logger) *GeminiClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiClassifier{client: client, logger: logger}
}

// Classify prompts the model once and, when the answer does not decode,
// asks once more with the validation error attached.
func (g *GeminiClassifier) Classify(ctx context.Context, text, _ string) (*types.ProfileCandidate, error) {
	if g.client == nil {
		return nil, &APICallError{Message: "no LLM client configured"}
	}

	prompt, err := buildPrompt(text)
	if err != nil {
		return nil, err
	}

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: "generation failed", Cause: err}
	}

	candidate, err := DecodeCandidate(raw)
	if err == nil {
		return candidate, nil
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) || ctx.Err() != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "classifier.gemini.retry", "error", err)

	retry, rerr := prompts.Render(promptFile, "classify-resume-retry", map[string]string{"Error": err.Error()})
	if rerr != nil {
		return nil, err
	}

	raw, err = g.client.GenerateJSON(ctx, prompt+"\n\n"+retry, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: "generation failed", Cause: err}
	}
	return DecodeCandidate(raw)
}

func buildPrompt(text string) (string, error) {
	instructions, err := prompts.Render(promptFile, "classify-resume", map[string]string{
		"MaxEducation":  strconv.Itoa(extraction.MaxEducation),
		"MaxExperience": strconv.Itoa(extraction.MaxExperience),
		"MaxProjects":   strconv.Itoa(extraction.MaxProjects),
		"MaxSkills":     strconv.Itoa(extraction.MaxSkills),
	})
	if err != nil {
		return "", err
	}

	return llm.BuildExtractionPrompt(llm.ExtractionSchema{
		Name:        "ProfileCandidate",
		Description: instructions,
		Fields:      candidateSchema,
	}, text), nil
}
