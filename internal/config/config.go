// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Classifier backends
const (
	ClassifierNone   = ""
	ClassifierHTTP   = "http"
	ClassifierGemini = "gemini"
)

// DefaultConcurrency is how many documents extract processes at once
const DefaultConcurrency = 4

// DefaultPort is the port serve listens on
const DefaultPort = 8080

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Inputs []string `json:"inputs,omitempty"`  // Documents to extract (.pdf or .json text runs)
	OutDir string   `json:"out_dir,omitempty"` // Directory for <name>.profile.json files

	// Remote classifier
	Classifier               string `json:"classifier,omitempty"`                 // "http", "gemini" or empty for local only
	ClassifierURL            string `json:"classifier_url,omitempty"`             // Endpoint for the HTTP classifier
	ClassifierToken          string `json:"classifier_token,omitempty"`           // Bearer token forwarded to the classifier
	ClassifierTimeoutSeconds int    `json:"classifier_timeout_seconds,omitempty"` // Bound on one remote call
	APIKey                   string `json:"api_key,omitempty"`                    // Gemini API key
	Model                    string `json:"model,omitempty"`                      // Gemini model override

	// Behavior
	Concurrency int  `json:"concurrency,omitempty"` // Parallel documents for extract
	Verbose     bool `json:"verbose,omitempty"`     // Print detailed debug information

	// Server
	Port        int    `json:"port,omitempty"`         // HTTP port for serve
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required settings depend on the command and are checked after merging.
func (c *Config) Validate() error {
	switch c.Classifier {
	case ClassifierNone, ClassifierHTTP, ClassifierGemini:
	default:
		return fmt.Errorf("config error: 'classifier' must be %q or %q, got %q", ClassifierHTTP, ClassifierGemini, c.Classifier)
	}

	if c.ClassifierURL != "" {
		u, err := url.Parse(c.ClassifierURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: 'classifier_url' must be an absolute http(s) URL: %s", c.ClassifierURL)
		}
	}

	// Validate numeric ranges
	if c.ClassifierTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'classifier_timeout_seconds' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	// Validate file paths exist (if specified)
	for _, input := range c.Inputs {
		if _, err := os.Stat(input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", input)
		}
	}

	return nil
}

// RequireClassifierSettings checks that the selected classifier can be built
func (c *Config) RequireClassifierSettings() error {
	switch c.Classifier {
	case ClassifierHTTP:
		if c.ClassifierURL == "" {
			return fmt.Errorf("config error: the http classifier needs 'classifier_url' (or CLASSIFIER_URL)")
		}
	case ClassifierGemini:
		if c.APIKey == "" {
			return fmt.Errorf("config error: the gemini classifier needs 'api_key' (or GEMINI_API_KEY)")
		}
	}
	return nil
}

// ClassifierTimeout returns the configured remote bound, or zero for the default
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.ClassifierTimeoutSeconds) * time.Second
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if len(result.Inputs) == 0 {
		result.Inputs = defaults.Inputs
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.Classifier == "" {
		result.Classifier = defaults.Classifier
	}
	if result.ClassifierURL == "" {
		result.ClassifierURL = defaults.ClassifierURL
	}
	if result.ClassifierToken == "" {
		result.ClassifierToken = defaults.ClassifierToken
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.ClassifierTimeoutSeconds == 0 {
		result.ClassifierTimeoutSeconds = defaults.ClassifierTimeoutSeconds
	}
	if result.Concurrency == 0 {
		if defaults.Concurrency > 0 {
			result.Concurrency = defaults.Concurrency
		} else {
			result.Concurrency = DefaultConcurrency
		}
	}
	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
