package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonathan/resume-profiler/internal/classifier"
	"github.com/jonathan/resume-profiler/internal/config"
	"github.com/jonathan/resume-profiler/internal/llm"
	"github.com/jonathan/resume-profiler/internal/parsing"
)

// newLogger builds the CLI text logger; verbose enables debug events
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// buildClassifier creates the configured remote classifier. The returned
// close function is never nil. A nil classifier means local extraction only.
func buildClassifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (parsing.Classifier, func(), error) {
	noop := func() {}

	switch cfg.Classifier {
	case config.ClassifierHTTP:
		return classifier.NewHTTPClassifier(cfg.ClassifierURL), noop, nil
	case config.ClassifierGemini:
		llmConfig := llm.DefaultConfig()
		if cfg.Model != "" {
			llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.Model)
		}
		client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create LLM client: %w", err)
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Warn("llm.close.failed", "error", err)
			}
		}
		return classifier.NewGeminiClassifier(client, logger), closeClient, nil
	default:
		return nil, noop, nil
	}
}

// classifierToken is the credential that enables the remote merge for CLI
// runs. The Gemini backend authenticates with its API key, so that key
// stands in when no explicit token is given.
func classifierToken(cfg *config.Config) string {
	if cfg.ClassifierToken != "" {
		return cfg.ClassifierToken
	}
	if cfg.Classifier == config.ClassifierGemini {
		return cfg.APIKey
	}
	return ""
}
