package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-profiler/internal/config"
	"github.com/jonathan/resume-profiler/internal/db"
	"github.com/jonathan/resume-profiler/internal/parsing"
	"github.com/jonathan/resume-profiler/internal/server"
	"github.com/jonathan/resume-profiler/internal/server/ratelimit"
)

var (
	servePort          int
	serveDatabaseURL   string
	serveClassifier    string
	serveClassifierURL string
	serveAPIKey        string
	serveModel         string
	serveConfigPath    string
	serveVerbose       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for profile extraction.

Results of authenticated requests are stored when DATABASE_URL (or --db-url) is set.
JWT_SECRET is required to validate bearer tokens.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveClassifier, "classifier", "", "Remote classifier: http or gemini (default: local extraction only)")
	serveCmd.Flags().StringVar(&serveClassifierURL, "classifier-url", "", "Endpoint for the http classifier (defaults to CLASSIFIER_URL env var)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Gemini model override")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Log debug events")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	var cfg config.Config
	if serveConfigPath != "" {
		loadedCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("classifier") {
		cfg.Classifier = strings.ToLower(serveClassifier)
	}
	if cmd.Flags().Changed("classifier-url") {
		cfg.ClassifierURL = serveClassifierURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = serveAPIKey
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = serveModel
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = serveVerbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		ClassifierURL: os.Getenv("CLASSIFIER_URL"),
		APIKey:        os.Getenv("GEMINI_API_KEY"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.RequireClassifierSettings(); err != nil {
		return err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to load JWT config: %w", err)
	}

	logger := newLogger(os.Stderr, cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	srvConfig := server.Config{
		Port:      cfg.Port,
		Extractor: parsing.NewParser(parserOpts...),
		JWT:       jwtConfig,
		RateLimit: ratelimit.LoadConfig(),
		Logger:    logger,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return fmt.Errorf("failed to apply database schema: %w", err)
		}
		srvConfig.Store = database
	} else {
		logger.Warn("serve.store.disabled", "reason", "DATABASE_URL not set; results will not be stored")
	}

	srv, err := server.New(srvConfig)
	if err != nil {
		if srvConfig.Store != nil {
			srvConfig.Store.Close()
		}
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Debug("serve.config", "port", cfg.Port, "classifier", cfg.Classifier)
	return srv.Start(ctx)
}
