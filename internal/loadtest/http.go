package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
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
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body. Every request carries a fresh
// X-Request-Id so one prediction can be traced through the service logs.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// fetchMetrics reads the service's aggregate prediction counter.
func fetchMetrics(ctx context.Context, client *HTTPClient, baseURL string) (int64, error) {
	resp, err := client.Get(ctx, baseURL+"/metrics")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch metrics: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return 0, fmt.Errorf("failed to read metrics response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("metrics endpoint answered status %d: %s", resp.StatusCode, string(body))
	}

	var metrics MetricsResponse
	if err := unmarshalJSON(body, &metrics); err != nil {
		return 0, fmt.Errorf("failed to parse metrics response: %w", err)
	}

	return metrics.TotalPredictions, nil
}

// submitPredictions submits payloads concurrently using worker pools.
// Results are stored per index so the verifier pairs every payload with the
// price the service actually returned for it.
func submitPredictions(ctx context.Context, config *Config, requests []PredictionRequest, stats *Stats) ([]Result, error) {
	log.Printf("📤 Submitting %d predictions with %d workers...", len(requests), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/predict"

	// Results storage; one slot per payload, no false positives on failure
	results := make([]Result, len(requests))
	succeeded := make([]bool, len(requests))

	// Counters for statistics
	var (
		successful int64
		rejected   int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var reportMu sync.Mutex
	lastReport := time.Now()
	reportInterval := 1 * time.Second

	// Create worker pool; send indices so workers fill their own result slot
	indexChan := make(chan int, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					price, outcome := submitSinglePrediction(ctx, client, url, requests[index], config.Verbose)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch outcome {
					case outcomeSuccess:
						results[index] = Result{Request: requests[index], Price: price}
						succeeded[index] = true
						atomic.AddInt64(&successful, 1)
					case outcomeRejected:
						atomic.AddInt64(&rejected, 1)
					case outcomeFailed:
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					reportMu.Lock()
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						rej := atomic.LoadInt64(&rejected)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (success: %d, rejected: %d, failed: %d)",
								total, len(requests), succ, rej, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (success: %d, rejected: %d, failed: %d)",
								total, len(requests), succ, rej, fail)
						}
					}
					reportMu.Unlock()
				}
			}
		}()
	}

	// Send payload indices to workers
	go func() {
		defer close(indexChan)
		for i := range requests {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.RequestsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RequestsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RequestsRejected = int(atomic.LoadInt64(&rejected))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Prediction submission completed:
   Successful: %d
   Rejected: %d
   Failed: %d
`, stats.RequestsSuccessful, stats.RequestsRejected, stats.RequestsFailed)

	// Keep only the results that actually succeeded
	priced := make([]Result, 0, stats.RequestsSuccessful)
	for i, ok := range succeeded {
		if ok {
			priced = append(priced, results[i])
		}
	}

	return priced, nil
}

// Submission outcomes.
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// workerChannelMultiplier sizes the index channel relative to the pool so
// workers rarely block on the feeder.
const workerChannelMultiplier = 2

// submitSinglePrediction submits a single payload and classifies the answer.
func submitSinglePrediction(ctx context.Context, client *HTTPClient, url string, request PredictionRequest, verbose bool) (float64, string) {
	resp, err := client.Post(ctx, url, request)
	if err != nil {
		return 0, outcomeFailed
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return 0, outcomeFailed
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var prediction PredictionResponse
		if err := unmarshalJSON(body, &prediction); err != nil {
			return 0, outcomeFailed
		}
		return prediction.PredictedPrice, outcomeSuccess
	case http.StatusBadRequest:
		// The generator only emits valid payloads, so a rejection is a
		// contract drift worth surfacing.
		if verbose {
			var errResp ErrorResponse
			if err := unmarshalJSON(body, &errResp); err == nil {
				log.Printf("⚠️  Payload rejected: %s (%s)", errResp.Message, errResp.Code)
			}
		}
		return 0, outcomeRejected
	default:
		return 0, outcomeFailed
	}
}
