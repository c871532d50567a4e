package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-profiler/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a JSON Schema",
	Long: `Validate a JSON document (for example a <name>.profile.json result) against a
JSON Schema file. When --schema does not name an existing file it is looked up
among the built-in schemas (parsing_result.schema.json, profile_candidate.schema.json).`,
	RunE: runValidate,
}

var (
	validateSchemaPath string
	validateJSONPath   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to JSON Schema file or built-in schema name (required)")
	validateCmd.Flags().StringVar(&validateJSONPath, "json", "", "Path to JSON file to validate (required)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validateSchemaPath == "" {
		return &usageError{Message: "--schema is required"}
	}
	if validateJSONPath == "" {
		return &usageError{Message: "--json is required"}
	}

	err := validateDocument(validateSchemaPath, validateJSONPath)
	out := cmd.OutOrStdout()

	var validationErr *schemas.ValidationError
	switch {
	case err == nil:
		_, _ = fmt.Fprintln(out, "Validation passed")
		return nil
	case errors.As(err, &validationErr):
		_, _ = fmt.Fprintln(out, "Validation failed")
		for i, fieldErr := range validationErr.Errors {
			_, _ = fmt.Fprintf(out, "  %d. %s: %s\n", i+1, fieldErr.Field, fieldErr.Message)
		}
		return fmt.Errorf("%s does not match %s", validateJSONPath, validateSchemaPath)
	default:
		return err
	}
}

// validateDocument checks jsonPath against a schema file, falling back to
// the embedded schema with that name
func validateDocument(schemaPath, jsonPath string) error {
	if _, err := os.Stat(schemaPath); err == nil {
		return schemas.ValidateJSON(schemaPath, jsonPath)
	}

	content, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return schemas.ValidateEmbedded(schemaPath, string(content))
}
