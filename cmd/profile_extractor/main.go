// Package main provides the profile_extractor CLI: batch extraction of
// candidate profiles from résumé documents and the HTTP API server.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "profile_extractor",
	Short:         "Résumé profile extractor",
	Long:          "profile_extractor turns résumé documents (PDF or positioned text runs) into structured candidate profiles with a confidence score.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// usageError marks a command-line mistake; it exits with code 2
type usageError struct {
	Message string
}

func (e *usageError) Error() string {
	return e.Message
}

func init() {
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{Message: err.Error()}
	})
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		return 2
	}
	return 1
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
