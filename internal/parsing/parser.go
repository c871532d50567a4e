// Package parsing orchestrates the extraction pipeline: line reconstruction,
// normalization, section segmentation, field extraction, confidence scoring
// and the optional remote merge.
package parsing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-profiler/internal/extraction"
	"github.com/jonathan/resume-profiler/internal/ingestion"
	"github.com/jonathan/resume-profiler/internal/merge"
	"github.com/jonathan/resume-profiler/internal/scoring"
	"github.com/jonathan/resume-profiler/internal/sections"
	"github.com/jonathan/resume-profiler/internal/types"
)

// User-facing warnings attached to a ParsingResult
const (
	WarnExtractionFailed = "Could not extract enough text from the document. It may be a scanned image or an encrypted / non-text-based PDF."
	WarnEmailMissing     = "Email address not detected. Please add it manually."
	WarnSectionsMissing  = "Some sections could not be detected automatically. Please review and fill in the missing details."
	WarnRemoteFailed     = "AI analysis was unavailable; showing results from local extraction only."
	WarnInternalFault    = "An unexpected error occurred while reading the document. Please fill in your details manually."
)

// DefaultClassifierTimeout bounds a single remote classification
const DefaultClassifierTimeout = 20 * time.Second

// minSectionsFound is the section count below which a review warning is added
const minSectionsFound = 3

// Classifier returns a candidate profile for normalized document text. The
// auth token is the caller's credential; implementations may ignore it.
type Classifier interface {
	Classify(ctx context.Context, text, authToken string) (*types.ProfileCandidate, error)
}

// Options carry per-call settings
type Options struct {
	// AuthToken enables the remote merge when non-empty
	AuthToken string
}

// Parser turns documents into ParsingResults. It holds no per-document
// state and is safe for concurrent use.
type Parser struct {
	classifier Classifier
	timeout    time.Duration
	logger     *slog.Logger
	extractor  *extraction.Extractor
	reconciler *merge.Reconciler
}

// Option configures a Parser
type Option func(*Parser)

// WithClassifier enables the remote merge stage
func WithClassifier(c Classifier) Option {
	return func(p *Parser) { p.classifier = c }
}

// WithClassifierTimeout overrides DefaultClassifierTimeout
func WithClassifierTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock sets the clock used for year sanitization during a merge
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.reconciler.Now = now
		}
	}
}

// WithIDGenerator sets the generator for entry identifiers
func WithIDGenerator(newID func() string) Option {
	return func(p *Parser) {
		if newID != nil {
			p.extractor = extraction.New(newID)
			p.reconciler.NewID = newID
		}
	}
}

// NewParser creates a Parser. Without WithClassifier only local extraction runs.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		timeout:    DefaultClassifierTimeout,
		logger:     slog.Default(),
		extractor:  extraction.New(nil),
		reconciler: merge.NewReconciler(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseSource reads pages from a document source and parses them. A source
// failure yields the internal-fault result.
func (p *Parser) ParseSource(ctx context.Context, src ingestion.Source, opts Options) types.ParsingResult {
	pages, err := src.Pages(ctx)
	if err != nil {
		p.logger.Error("parser.source.failed", "source", src.Name(), "error", err)
		return types.FailedResult(WarnInternalFault)
	}
	return p.Parse(ctx, pages, opts)
}

// Parse runs the pipeline over pages. It never panics and never returns an
// error: every failure is reported through the result's warnings.
func (p *Parser) Parse(ctx context.Context, pages []types.Page, opts Options) (result types.ParsingResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("parser.panic", "panic", fmt.Sprint(r))
			result = types.FailedResult(WarnInternalFault)
		}
	}()

	lines := ingestion.NormalizeLines(ingestion.ReconstructLines(pages))
	text := strings.Join(lines, "\n")
	textLength := utf8.RuneCountInString(text)
	if textLength < ingestion.MinTextLength {
		p.logger.Info("parser.extraction.failed", "chars", textLength)
		return types.FailedResult(WarnExtractionFailed)
	}

	found := sections.Segment(lines)
	profile := p.extractProfile(text, found)
	sectionNames := sections.Names(found)

	p.logger.Debug("parser.local.done",
		"chars", textLength,
		"lines", len(lines),
		"sections", sectionNames,
	)

	warnings := make([]string, 0)
	if profile.PersonalInfo.Email == "" {
		warnings = append(warnings, WarnEmailMissing)
	}

	merged := false
	remoteFailed := false
	if p.classifier != nil && opts.AuthToken != "" {
		candidate, err := p.classify(ctx, text, opts.AuthToken)
		if err != nil {
			p.logger.Warn("parser.classifier.failed", "error", err)
			remoteFailed = true
		} else {
			profile = p.reconciler.Merge(profile, candidate)
			merged = true
			p.logger.Debug("parser.classifier.merged")
		}
	}

	if len(sectionNames) < minSectionsFound && !merged {
		warnings = append(warnings, WarnSectionsMissing)
	}
	if remoteFailed {
		warnings = append(warnings, WarnRemoteFailed)
	}

	confidence := scoring.Score(scoring.Signals{
		TextLength:    textLength,
		HasEmail:      profile.PersonalInfo.Email != "",
		HasPhone:      profile.PersonalInfo.Phone != "",
		HasLinkedIn:   profile.PersonalInfo.LinkedInURL != "",
		HasGitHub:     profile.PersonalInfo.GitHubURL != "",
		SectionsFound: len(sectionNames),
		MergeAccepted: merged,
	})

	if merged {
		sectionNames = append(sectionNames, types.AIAnalyzedLabel)
	}

	return types.ParsingResult{
		Profile:       profile,
		Confidence:    confidence,
		SectionsFound: sectionNames,
		Warnings:      warnings,
	}
}

// extractProfile runs every field extractor over its section
func (p *Parser) extractProfile(text string, found []types.Section) types.Profile {
	profile := types.EmptyProfile()
	profile.PersonalInfo = extraction.ExtractPersonalInfo(text)

	if education := p.extractor.Education(sections.Find(found, types.SectionEducation)); len(education) > 0 {
		profile.Education = education
	}
	if experience := p.extractor.Experience(sections.Find(found, types.SectionExperience)); len(experience) > 0 {
		profile.Experience = experience
	}
	if projects := p.extractor.Projects(sections.Find(found, types.SectionProjects)); len(projects) > 0 {
		profile.Projects = projects
	}
	if certs := p.extractor.Certifications(sections.Find(found, types.SectionCertifications)); len(certs) > 0 {
		profile.Certifications = certs
	}
	profile.Skills = extraction.ExtractSkills(sections.Find(found, types.SectionSkills))

	return profile
}

type classifyResult struct {
	candidate *types.ProfileCandidate
	err       error
}

// classify calls the classifier under the configured timeout. The call is
// abandoned when the deadline passes even if the classifier ignores ctx.
func (p *Parser) classify(ctx context.Context, text, token string) (*types.ProfileCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan classifyResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- classifyResult{err: fmt.Errorf("classifier panic: %v", r)}
			}
		}()
		candidate, err := p.classifier.Classify(ctx, text, token)
		done <- classifyResult{candidate: candidate, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if res.candidate == nil {
			return nil, errors.New("classifier returned no profile")
		}
		return res.candidate, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("classifier: %w", ctx.Err())
	}
}
