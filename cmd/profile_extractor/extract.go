package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-profiler/internal/config"
	"github.com/jonathan/resume-profiler/internal/ingestion"
	"github.com/jonathan/resume-profiler/internal/observability"
	"github.com/jonathan/resume-profiler/internal/parsing"
	"github.com/jonathan/resume-profiler/internal/schemas"
	"github.com/jonathan/resume-profiler/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract candidate profiles from résumé documents",
	Long: `Extract a structured profile from each input document (.pdf, or .json
holding pages of positioned text runs). Each result is written to
<out>/<name>.profile.json; a single input without --out is printed to stdout.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runExtract,
}

var (
	extractInputs          []string
	extractOutDir          string
	extractToken           string
	extractClassifier      string
	extractClassifierURL   string
	extractAPIKey          string
	extractModel           string
	extractTimeoutSeconds  int
	extractConcurrency     int
	extractConfigPath      string
	extractVerbose         bool
	extractWriteMetadata   bool
	extractSkipSchemaCheck bool
)

func init() {
	extractCmd.Flags().StringArrayVarP(&extractInputs, "in", "i", nil, "Path to an input document; repeat for several (required)")
	extractCmd.Flags().StringVarP(&extractOutDir, "out", "o", "", "Directory for <name>.profile.json files")
	extractCmd.Flags().StringVar(&extractToken, "token", "", "Credential that enables the remote merge (defaults to CLASSIFIER_TOKEN env var)")
	extractCmd.Flags().StringVar(&extractClassifier, "classifier", "", "Remote classifier: http or gemini (default: local extraction only)")
	extractCmd.Flags().StringVar(&extractClassifierURL, "classifier-url", "", "Endpoint for the http classifier (defaults to CLASSIFIER_URL env var)")
	extractCmd.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "Gemini model override")
	extractCmd.Flags().IntVar(&extractTimeoutSeconds, "timeout", 0, "Bound on one remote classification in seconds (default 20)")
	extractCmd.Flags().IntVar(&extractConcurrency, "concurrency", 0, "Documents processed in parallel (default 4)")
	extractCmd.Flags().StringVar(&extractConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print debug logs and a summary per document")
	extractCmd.Flags().BoolVar(&extractWriteMetadata, "metadata", false, "Also write <name>.meta.json with text statistics (requires --out)")
	extractCmd.Flags().BoolVar(&extractSkipSchemaCheck, "skip-schema-check", false, "Do not validate results against the result schema")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveExtractConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg.Verbose)

	remote, closeRemote, err := buildClassifier(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer closeRemote()

	parserOpts := []parsing.Option{
		parsing.WithLogger(logger),
		parsing.WithClassifierTimeout(cfg.ClassifierTimeout()),
	}
	if remote != nil {
		parserOpts = append(parserOpts, parsing.WithClassifier(remote))
	}
	parser := parsing.NewParser(parserOpts...)
	opts := parsing.Options{AuthToken: classifierToken(&cfg)}

	var printer *observability.Printer
	if cfg.Verbose {
		printer = observability.NewPrinter(os.Stderr)
	}

	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	outputs := make([]extractOutput, len(cfg.Inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, input := range cfg.Inputs {
		g.Go(func() error {
			out, err := extractDocument(gctx, parser, opts, input, logger)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Results are written in input order once every document has been parsed
	for _, out := range outputs {
		if printer != nil {
			printer.PrintParsingResult(out.Source, &out.Result)
			printer.PrintProfile(&out.Result.Profile)
		}
		if err := writeExtractOutput(os.Stdout, cfg.OutDir, out, extractWriteMetadata, !extractSkipSchemaCheck); err != nil {
			return err
		}
	}

	return nil
}

// resolveExtractConfig merges the config file, flags and environment
func resolveExtractConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if extractConfigPath != "" {
		loadedCfg, err := config.LoadConfig(extractConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
	}

	// Command-line args take priority over the config file
	if cmd.Flags().Changed("in") {
		cfg.Inputs = extractInputs
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = extractOutDir
	}
	if cmd.Flags().Changed("token") {
		cfg.ClassifierToken = extractToken
	}
	if cmd.Flags().Changed("classifier") {
		cfg.Classifier = strings.ToLower(extractClassifier)
	}
	if cmd.Flags().Changed("classifier-url") {
		cfg.ClassifierURL = extractClassifierURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = extractAPIKey
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = extractModel
	}
	if cmd.Flags().Changed("timeout") {
		cfg.ClassifierTimeoutSeconds = extractTimeoutSeconds
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = extractConcurrency
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = extractVerbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		ClassifierURL:   os.Getenv("CLASSIFIER_URL"),
		ClassifierToken: os.Getenv("CLASSIFIER_TOKEN"),
		APIKey:          os.Getenv("GEMINI_API_KEY"),
	})

	if len(cfg.Inputs) == 0 {
		return cfg, &usageError{Message: "at least one --in document is required (via flag or config)"}
	}
	if len(cfg.Inputs) > 1 && cfg.OutDir == "" {
		return cfg, &usageError{Message: "--out is required when extracting more than one document"}
	}
	if extractWriteMetadata && cfg.OutDir == "" {
		return cfg, &usageError{Message: "--metadata requires --out"}
	}
	if cfg.OutDir != "" {
		if err := checkOutputNames(cfg.Inputs); err != nil {
			return cfg, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.RequireClassifierSettings(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// extractOutput is one parsed document awaiting output
type extractOutput struct {
	Source   string
	Result   types.ParsingResult
	Metadata *ingestion.Metadata
}

// extractDocument opens and parses one input. Only a missing or unsupported
// file is an error; unreadable content is reported in the result warnings.
func extractDocument(ctx context.Context, parser *parsing.Parser, opts parsing.Options, path string, logger *slog.Logger) (extractOutput, error) {
	src, err := ingestion.OpenSource(path)
	if err != nil {
		return extractOutput{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	recorder := &recordingSource{Source: src}
	result := parser.ParseSource(ctx, recorder, opts)

	logger.Info("extract.document.done",
		"source", src.Name(),
		"confidence", result.Confidence,
		"sections", len(result.SectionsFound),
		"warnings", len(result.Warnings),
	)

	return extractOutput{
		Source:   src.Name(),
		Result:   result,
		Metadata: recorder.metadata(),
	}, nil
}

// recordingSource keeps the pages a source produced so document statistics
// can be computed without reading the file twice
type recordingSource struct {
	ingestion.Source
	pages []types.Page
}

func (r *recordingSource) Pages(ctx context.Context) ([]types.Page, error) {
	pages, err := r.Source.Pages(ctx)
	r.pages = pages
	return pages, err
}

func (r *recordingSource) metadata() *ingestion.Metadata {
	lines := ingestion.NormalizeLines(ingestion.ReconstructLines(r.pages))
	return ingestion.NewMetadata(r.Name(), len(r.pages), strings.Join(lines, "\n"))
}

// writeExtractOutput writes a result to <outDir>/<name>.profile.json, or to
// stdout when outDir is empty
func writeExtractOutput(stdout io.Writer, outDir string, out extractOutput, withMetadata, checkSchema bool) error {
	jsonBytes, err := json.MarshalIndent(out.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if checkSchema {
		if err := schemas.ValidateResult(string(jsonBytes)); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("result for %s does not validate against schema: %w", out.Source, err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
		}
	}

	if outDir == "" {
		_, err := fmt.Fprintf(stdout, "%s\n", jsonBytes)
		return err
	}

	base := outputBaseName(out.Source)
	outPath := filepath.Join(outDir, base+".profile.json")
	if err := os.WriteFile(outPath, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "Wrote %s (confidence %d)\n", outPath, out.Result.Confidence)

	if withMetadata && out.Metadata != nil {
		metaBytes, err := out.Metadata.ToJSON()
		if err != nil {
			return err
		}
		metaPath := filepath.Join(outDir, base+".meta.json")
		if err := os.WriteFile(metaPath, metaBytes, 0644); err != nil {
			return fmt.Errorf("failed to write metadata file: %w", err)
		}
	}

	return nil
}

// checkOutputNames rejects inputs that would write the same output file
func checkOutputNames(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		base := outputBaseName(input)
		if previous, ok := seen[base]; ok {
			return &usageError{Message: fmt.Sprintf("%s and %s would both write %s.profile.json; rename one of them", previous, input, base)}
		}
		seen[base] = input
	}
	return nil
}

// outputBaseName strips the extension from a source file name
func outputBaseName(source string) string {
	name := filepath.Base(source)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
