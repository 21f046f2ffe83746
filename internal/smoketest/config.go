// Package smoketest drives the prediction API the way a client would:
// generated feature records are posted concurrently against a running
// service and the responses are verified against the serving contract.
package smoketest

import (
	"time"
)

// Config controls a smoke-test run.
type Config struct {
	// BaseURL of the running service.
	BaseURL string

	// NumRecords to generate and score.
	NumRecords int

	// BatchSize groups records per /predict request. 1 sends single objects
	// instead of arrays, exercising the one-row-batch path.
	BatchSize int

	// Workers posting requests concurrently.
	Workers int

	// Timeout per HTTP request.
	Timeout time.Duration

	// Verbose enables per-request logging.
	Verbose bool
}

// Stats accumulates the outcome of a run.
type Stats struct {
	RecordsGenerated  int
	RequestsSent      int
	RequestsSucceeded int
	RequestsFailed    int
	RowsScored        int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
