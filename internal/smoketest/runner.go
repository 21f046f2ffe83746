package smoketest

import (
	"context"
	"fmt"
	"time"

	"github.com/finml/creditserve/pkg/logger"
)

const percentageMultiplier = 100.0

// Run executes the complete smoke test against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting prediction smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("records", config.NumRecords),
		logger.Int("batchSize", config.BatchSize),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check the service is up
	if err := checkServiceLiveness(ctx, config); err != nil {
		return fmt.Errorf("service liveness check failed: %w", err)
	}

	// Step 2: Generate records
	records := generateRecords(ctx, config, stats)

	// Step 3: Submit batches concurrently
	batches := splitIntoBatches(records, config.BatchSize)
	if err := submitBatches(ctx, config, batches, stats); err != nil {
		return fmt.Errorf("batch submission failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.RequestsFailed > 0 {
		return fmt.Errorf("%d of %d requests failed", stats.RequestsFailed, stats.RequestsSent)
	}

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceLiveness verifies the service answers its root probe.
func checkServiceLiveness(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service liveness")

	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != 200 {
		return fmt.Errorf("service liveness check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is up")
	return nil
}

// splitIntoBatches groups records into request-sized batches.
func splitIntoBatches(records []map[string]float64, batchSize int) [][]map[string]float64 {
	if batchSize < 1 {
		batchSize = 1
	}

	batches := make([][]map[string]float64, 0, (len(records)+batchSize-1)/batchSize)
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, rowsPerSecond float64

	if stats.RequestsSent > 0 {
		successRate = float64(stats.RequestsSucceeded) / float64(stats.RequestsSent) * percentageMultiplier
	}

	if stats.Duration > 0 {
		rowsPerSecond = float64(stats.RowsScored) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("recordsGenerated", stats.RecordsGenerated),
		logger.Int("requestsSent", stats.RequestsSent),
		logger.Int("requestsSucceeded", stats.RequestsSucceeded),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Int("rowsScored", stats.RowsScored),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("rowsPerSecond", rowsPerSecond))
}
