package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/finml/creditserve/internal/smoketest"
)

// Default configuration constants.
const (
	defaultNumRecords  = 1000
	defaultBatchSize   = 25
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:5000", "Base URL of the service")
		numRecords = flag.Int("records", defaultNumRecords, "Number of records to generate and score")
		batchSize  = flag.Int("batch", defaultBatchSize, "Records per /predict request; 1 posts bare objects")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoketest.ShowHelp()
		return
	}

	if err := smoketest.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &smoketest.Config{
		BaseURL:    *baseURL,
		NumRecords: *numRecords,
		BatchSize:  *batchSize,
		Workers:    *workers,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if err := smoketest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
