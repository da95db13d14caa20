package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// getFeed retrieves the top N match feed entries.
func getFeed(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("fetching top %d feed entries", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/matches?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var feed []Entry
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.FeedEntries = len(feed)
	log.Printf("retrieved %d feed entries", len(feed))
	return feed, nil
}

// getMatch retrieves the standing for a single pair id.
func getMatch(ctx context.Context, client *HTTPClient, baseURL, pairID string) (Entry, error) {
	url := fmt.Sprintf("%s/matches/%s", baseURL, pairID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return entry, nil
}
