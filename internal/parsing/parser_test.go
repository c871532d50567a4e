package parsing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-profiler/internal/types"
)

// pagesFromLines lays lines out top to bottom on a single page
func pagesFromLines(lines ...string) []types.Page {
	page := make(types.Page, 0, len(lines))
	for i, line := range lines {
		page = append(page, types.TextRun{Text: line, BaselineY: float64(800 - 14*i), X: 72})
	}
	return []types.Page{page}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time {
	return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
}

// fakeClassifier returns a fixed candidate or error and records its calls
type fakeClassifier struct {
	candidate *types.ProfileCandidate
	err       error
	block     chan struct{}
	calls     atomic.Int32
	lastToken atomic.Value
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, token string) (*types.ProfileCandidate, error) {
	f.calls.Add(1)
	f.lastToken.Store(token)
	if f.block != nil {
		<-f.block
	}
	return f.candidate, f.err
}

type failingSource struct{}

func (failingSource) Name() string { return "broken.pdf" }

func (failingSource) Pages(context.Context) ([]types.Page, error) {
	return nil, errors.New("malformed xref table")
}

var fullResume = []string{
	"Jane Doe",
	"jane.doe@example.com | +1 415 555 1234",
	"Education",
	"Stanford University",
	"B.S. Computer Science 2020",
	"Experience",
	"Software Engineer at Google Jan 2021 - Present",
	"• Built APIs",
	"Skills",
	"Go, Python, Kubernetes",
}

func newTestParser(opts ...Option) *Parser {
	base := []Option{WithLogger(quietLogger()), WithIDGenerator(sequentialIDs()), WithClock(fixedClock)}
	return NewParser(append(base, opts...)...)
}

func TestParse_EmptyDocument(t *testing.T) {
	tests := []struct {
		name  string
		pages []types.Page
	}{
		{name: "no pages", pages: nil},
		{name: "empty page", pages: []types.Page{{}}},
		{name: "whitespace runs", pages: pagesFromLines("   ", "\t", "")},
		{name: "too little text", pages: pagesFromLines("Jane Doe", "Resume")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newTestParser().Parse(context.Background(), tt.pages, Options{})

			assert.Equal(t, 0, result.Confidence)
			assert.Equal(t, types.EmptyProfile(), result.Profile)
			assert.Empty(t, result.SectionsFound)
			assert.Equal(t, []string{WarnExtractionFailed}, result.Warnings)
		})
	}
}

func TestParse_ContactOnlyDocument(t *testing.T) {
	pages := pagesFromLines(
		"Jane Doe",
		"Reach me at john.doe@example.com or +1 415 555 1234 anytime",
	)

	result := newTestParser().Parse(context.Background(), pages, Options{})

	assert.Equal(t, []string{}, result.SectionsFound)
	assert.Equal(t, 15+10, result.Confidence)
	assert.Equal(t, "john.doe@example.com", result.Profile.PersonalInfo.Email)
	assert.Equal(t, "+1 415 555 1234", result.Profile.PersonalInfo.Phone)
	assert.Empty(t, result.Profile.Education)
	assert.Empty(t, result.Profile.Experience)
	assert.Empty(t, result.Profile.Projects)
	assert.Empty(t, result.Profile.Skills)
	assert.Equal(t, []string{WarnSectionsMissing}, result.Warnings)
}

func TestParse_FullDocument(t *testing.T) {
	result := newTestParser().Parse(context.Background(), pagesFromLines(fullResume...), Options{})

	assert.Equal(t, []string{"Education", "Experience", "Skills"}, result.SectionsFound)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "Jane Doe", result.Profile.PersonalInfo.FullName)

	require.Len(t, result.Profile.Education, 1)
	assert.Equal(t, "Stanford University", result.Profile.Education[0].Institution)
	assert.Equal(t, "2020", result.Profile.Education[0].Year)

	require.Len(t, result.Profile.Experience, 1)
	assert.Equal(t, "Google", result.Profile.Experience[0].Company)
	assert.Equal(t, "Built APIs", result.Profile.Experience[0].Description)

	assert.Equal(t, []string{"Python", "Kubernetes"}, result.Profile.Skills)
	assert.GreaterOrEqual(t, result.Confidence, 55)
	assert.LessOrEqual(t, result.Confidence, 100)
}

func TestParse_MissingEmailWarning(t *testing.T) {
	pages := pagesFromLines("Jane Doe", "Experience", "Backend Engineer 2019 - 2023", "Acme Corporation Limited")

	result := newTestParser().Parse(context.Background(), pages, Options{})

	assert.Equal(t, []string{WarnEmailMissing, WarnSectionsMissing}, result.Warnings)
}

func TestParse_IdempotentApartFromIDs(t *testing.T) {
	parser := NewParser(WithLogger(quietLogger()))
	pages := pagesFromLines(fullResume...)

	first := stripIDs(parser.Parse(context.Background(), pages, Options{}))
	second := stripIDs(parser.Parse(context.Background(), pages, Options{}))

	assert.Equal(t, first, second)
}

func TestParse_NoTokenSkipsClassifier(t *testing.T) {
	classifier := &fakeClassifier{candidate: &types.ProfileCandidate{}}

	result := newTestParser(WithClassifier(classifier)).Parse(context.Background(), pagesFromLines(fullResume...), Options{})

	assert.Equal(t, int32(0), classifier.calls.Load())
	assert.NotContains(t, result.SectionsFound, types.AIAnalyzedLabel)
}

func TestParse_MergeAccepted(t *testing.T) {
	bio := "Backend engineer"
	classifier := &fakeClassifier{candidate: &types.ProfileCandidate{
		PersonalInfo: &types.CandidatePersonalInfo{Bio: &bio},
		Education:    []types.EducationEntry{{Institution: "Remote University", Year: "2020-2024"}},
	}}
	pages := pagesFromLines("Jane Doe", "jane.doe@example.com", "Some free text that holds no section headings at all")

	result := newTestParser(WithClassifier(classifier)).Parse(context.Background(), pages, Options{AuthToken: "token-123"})

	assert.Equal(t, "token-123", classifier.lastToken.Load())
	assert.Equal(t, 95, result.Confidence)
	assert.Equal(t, []string{types.AIAnalyzedLabel}, result.SectionsFound)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Profile.Education, 1)
	assert.Equal(t, "2024", result.Profile.Education[0].Year)
	assert.NotEmpty(t, result.Profile.Education[0].ID)
	assert.Equal(t, "Backend engineer", result.Profile.PersonalInfo.Bio)
	assert.Equal(t, "jane.doe@example.com", result.Profile.PersonalInfo.Email)
}

func TestParse_ClassifierFailureFallsBackToLocal(t *testing.T) {
	tests := []struct {
		name       string
		classifier *fakeClassifier
	}{
		{name: "error", classifier: &fakeClassifier{err: errors.New("status 502")}},
		{name: "nil candidate", classifier: &fakeClassifier{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := pagesFromLines(fullResume...)
			local := newTestParser().Parse(context.Background(), pages, Options{})

			result := newTestParser(WithClassifier(tt.classifier)).Parse(context.Background(), pages, Options{AuthToken: "t"})

			expected := local
			expected.Warnings = append(append([]string{}, local.Warnings...), WarnRemoteFailed)
			assert.Equal(t, expected, result)
		})
	}
}

func TestParse_ClassifierTimeout(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	classifier := &fakeClassifier{candidate: &types.ProfileCandidate{Skills: []string{"Rust"}}, block: block}
	pages := pagesFromLines(fullResume...)

	local := newTestParser().Parse(context.Background(), pages, Options{})

	start := time.Now()
	result := newTestParser(WithClassifier(classifier), WithClassifierTimeout(20*time.Millisecond)).
		Parse(context.Background(), pages, Options{AuthToken: "t"})

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, local.Profile, result.Profile)
	assert.Equal(t, local.Confidence, result.Confidence)
	assert.Equal(t, local.SectionsFound, result.SectionsFound)
	assert.Equal(t, append(append([]string{}, local.Warnings...), WarnRemoteFailed), result.Warnings)
}

func TestParseSource_SourceFailure(t *testing.T) {
	result := newTestParser().ParseSource(context.Background(), failingSource{}, Options{})

	assert.Equal(t, types.FailedResult(WarnInternalFault), result)
}

func TestNewParser_Defaults(t *testing.T) {
	p := NewParser()

	assert.Equal(t, DefaultClassifierTimeout, p.timeout)
	assert.Nil(t, p.classifier)
	assert.NotNil(t, p.logger)

	p = NewParser(WithClassifierTimeout(-time.Second), WithLogger(nil))
	assert.Equal(t, DefaultClassifierTimeout, p.timeout)
	assert.NotNil(t, p.logger)
}

func stripIDs(r types.ParsingResult) types.ParsingResult {
	p := r.Profile
	p.Education = append([]types.EducationEntry{}, p.Education...)
	for i := range p.Education {
		p.Education[i].ID = ""
	}
	p.Experience = append([]types.ExperienceEntry{}, p.Experience...)
	for i := range p.Experience {
		p.Experience[i].ID = ""
	}
	p.Projects = append([]types.ProjectEntry{}, p.Projects...)
	for i := range p.Projects {
		p.Projects[i].ID = ""
	}
	p.Certifications = append([]types.CertificationEntry{}, p.Certifications...)
	for i := range p.Certifications {
		p.Certifications[i].ID = ""
	}
	r.Profile = p
	return r
}
