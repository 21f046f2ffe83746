package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/finml/creditserve/pkg/logger"
)

// Submission outcomes.
const (
	resultSuccess = "success"
	resultFailed  = "failed"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// predictResponse mirrors the service's success payload.
type predictResponse struct {
	Predictions []float64 `json:"predictions"`
	Status      string    `json:"status"`
}

// submitBatches posts record batches concurrently using a worker pool.
func submitBatches(ctx context.Context, config *Config, batches [][]map[string]float64, stats *Stats) error {
	logger.Get().Info(ctx, "submitting batches",
		logger.Int("batches", len(batches)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/predict"

	// Counters for statistics
	var (
		successful int64
		failed     int64
		submitted  int64
		rowsScored int64
	)

	batchChan := make(chan []map[string]float64, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for batch := range batchChan {
				select {
				case <-ctx.Done():
					return
				default:
					result, rows := submitSingleBatch(ctx, config, client, url, batch)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case resultSuccess:
						atomic.AddInt64(&successful, 1)
						atomic.AddInt64(&rowsScored, int64(rows))
					case resultFailed:
						atomic.AddInt64(&failed, 1)
					}

					if config.Verbose {
						logger.Get().Debug(ctx, "batch submitted",
							logger.Int("worker", workerID),
							logger.String("result", result),
							logger.Int("rows", rows))
					}
				}
			}
		}(i)
	}

	go func() {
		defer close(batchChan)
		for _, batch := range batches {
			select {
			case <-ctx.Done():
				return
			case batchChan <- batch:
			}
		}
	}()

	wg.Wait()

	stats.RequestsSent = int(atomic.LoadInt64(&submitted))
	stats.RequestsSucceeded = int(atomic.LoadInt64(&successful))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))
	stats.RowsScored = int(atomic.LoadInt64(&rowsScored))

	logger.Get().Info(ctx, "submission completed",
		logger.Int("succeeded", stats.RequestsSucceeded),
		logger.Int("failed", stats.RequestsFailed),
		logger.Int("rowsScored", stats.RowsScored))

	return nil
}

// submitSingleBatch posts one batch and verifies the response against the
// serving contract: one probability per record, each in [0, 1].
func submitSingleBatch(ctx context.Context, config *Config, client *HTTPClient, url string, batch []map[string]float64) (string, int) {
	// A batch of one is sent as a bare object to exercise that request shape.
	var payload any = batch
	if config.BatchSize == 1 && len(batch) == 1 {
		payload = batch[0]
	}

	resp, err := client.Post(ctx, url, payload)
	if err != nil {
		return resultFailed, 0
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return resultFailed, 0
	}

	if resp.StatusCode != http.StatusOK {
		return resultFailed, 0
	}

	var parsed predictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return resultFailed, 0
	}
	if parsed.Status != "success" || len(parsed.Predictions) != len(batch) {
		return resultFailed, 0
	}
	for _, p := range parsed.Predictions {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return resultFailed, 0
		}
	}

	return resultSuccess, len(parsed.Predictions)
}
