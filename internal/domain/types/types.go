// Package types contains common types used across the application
package types

// MatchEntry represents one row of the match feed.
type MatchEntry struct {
	Rank    int      `json:"rank"`
	PairID  string   `json:"pair_id"`
	Score   int      `json:"score"`
	League  string   `json:"league"`
	Reasons []string `json:"reasons"`
	Status  string   `json:"status"`
}
