package loadgen

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
)

// HTTP status code constants.
const (
	statusOK       = 200
	statusAccepted = 202
)

// HTTPClient wraps http.Client with a fixed timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
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

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitPairs submits pair events concurrently using a worker pool.
func submitPairs(ctx context.Context, config *Config, pairs []PairEvent, stats *Stats) error {
	log.Printf("submitting %d pairs with %d workers", len(pairs), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/pairs"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	pairChan := make(chan PairEvent, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range pairChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				result := submitSinglePair(ctx, client, url, pair)
				atomic.AddInt64(&submitted, 1)
				switch result {
				case "success":
					atomic.AddInt64(&successful, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
				if config.Verbose {
					total := atomic.LoadInt64(&submitted)
					if total%1000 == 0 {
						log.Printf("progress: %d/%d submitted", total, len(pairs))
					}
				}
			}
		}()
	}

	go func() {
		defer close(pairChan)
		for _, pair := range pairs {
			select {
			case <-ctx.Done():
				return
			case pairChan <- pair:
			}
		}
	}()

	wg.Wait()

	stats.PairsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.PairsSuccessful = int(atomic.LoadInt64(&successful))
	stats.PairsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.PairsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("submission completed: success=%d duplicate=%d failed=%d",
		stats.PairsSuccessful, stats.PairsDuplicate, stats.PairsFailed)
	return nil
}

// submitSinglePair submits a single pair event and classifies the outcome.
func submitSinglePair(ctx context.Context, client *HTTPClient, url string, pair PairEvent) string {
	resp, err := client.Post(ctx, url, pair)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case statusAccepted:
		return "success"
	case statusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
