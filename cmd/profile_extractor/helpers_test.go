package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the profile_extractor binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "profile_extractor"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/profile_extractor ./cmd/profile_extractor'", binaryPath)
	}

	return binaryPath
}
