package smoketest

import (
	"fmt"
	"os"

	"github.com/finml/creditserve/pkg/logger"
)

// SetupLogging initializes the structured logger for a smoke-test run.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the smoke-test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Credit Default Prediction Smoke Test
====================================

A concurrent client that posts generated feature records against a running
prediction service and verifies the responses.

Usage:
  go run cmd/smoke/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:5000")
  -records int
        Number of records to generate and score (default 1000)
  -batch int
        Records per /predict request; 1 posts bare objects (default 25)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/smoke/main.go

  # Score a large batch against a custom address
  go run cmd/smoke/main.go -records 50000 -workers 16 -url http://localhost:8080

  # Exercise the single-object request shape
  go run cmd/smoke/main.go -batch 1 -records 200 -verbose
`)
}
