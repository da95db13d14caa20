package loadgen

import (
	"context"
	"fmt"
	"log"
)

var knownLeagues = map[string]struct{}{
	"diamond":  {},
	"platinum": {},
	"gold":     {},
	"silver":   {},
	"bronze":   {},
}

// verifyFeed checks ordering and score invariants on the retrieved feed,
// then spot-checks each feed entry against the per-pair endpoint.
func verifyFeed(ctx context.Context, config *Config, feed []Entry, stats *Stats) error {
	log.Println("verifying feed...")

	if len(feed) == 0 {
		return fmt.Errorf("no feed entries to verify")
	}

	for i, entry := range feed {
		if entry.Score < 0 || entry.Score > 100 {
			return fmt.Errorf("entry %d: score %d out of range", i, entry.Score)
		}
		if _, ok := knownLeagues[entry.League]; !ok {
			return fmt.Errorf("entry %d: unknown league %q", i, entry.League)
		}
		if entry.Rank != i+1 {
			return fmt.Errorf("entry %d: rank %d does not match position", i, entry.Rank)
		}
		if i > 0 && entry.Score > feed[i-1].Score {
			return fmt.Errorf("feed not sorted: entry %d outranks entry %d", i, i-1)
		}
	}

	client := newHTTPClient(config.Timeout)
	checked := 0
	for _, entry := range feed {
		got, err := getMatch(ctx, client, config.BaseURL, entry.PairID)
		if err != nil {
			log.Printf("spot-check failed for %s: %v", entry.PairID, err)
			continue
		}
		if got.Score != entry.Score || got.Rank != entry.Rank {
			return fmt.Errorf("pair %s: feed says rank=%d score=%d, lookup says rank=%d score=%d",
				entry.PairID, entry.Rank, entry.Score, got.Rank, got.Score)
		}
		checked++
	}
	stats.MatchesFetched = checked

	if config.Verbose {
		displayTopMatches(feed)
	}

	log.Println("feed verification completed")
	return nil
}

// displayTopMatches shows the leading feed entries.
func displayTopMatches(feed []Entry) {
	topN := 10
	if len(feed) < topN {
		topN = len(feed)
	}

	log.Printf("top %d matches:", topN)
	for i := 0; i < topN; i++ {
		entry := feed[i]
		log.Printf("   %d. %s score=%d league=%s status=%s", entry.Rank, entry.PairID, entry.Score, entry.League, entry.Status)
	}
}
