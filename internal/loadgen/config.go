// Package loadgen drives a running quad instance with synthetic pair
// traffic and verifies the resulting match feed.
package loadgen

import "time"

// Config holds configuration for one load generation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumPairs   int           // Number of pair events to generate
	TopN       int           // Number of top feed entries to fetch
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for generated pairs
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Profile mirrors one side of the POST /pairs schema.
type Profile struct {
	ID         string   `json:"id"`
	CGPA       float64  `json:"cgpa"`
	Branch     string   `json:"branch"`
	Year       int      `json:"year"`
	StudyStyle string   `json:"study_style"`
	Traits     []string `json:"traits"`
	LookingFor []string `json:"looking_for"`
	Bio        string   `json:"bio"`
}

// PairEvent mirrors the POST /pairs request body.
type PairEvent struct {
	EventID string  `json:"event_id"`
	First   Profile `json:"first"`
	Second  Profile `json:"second"`
	TS      string  `json:"ts"`
}

// Entry mirrors a match feed row.
type Entry struct {
	Rank    int      `json:"rank"`
	PairID  string   `json:"pair_id"`
	Score   int      `json:"score"`
	League  string   `json:"league"`
	Reasons []string `json:"reasons"`
	Status  string   `json:"status"`
}

// AckResponse mirrors the response from pair submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	PairsGenerated  int
	PairsSubmitted  int
	PairsSuccessful int
	PairsDuplicate  int
	PairsFailed     int
	MatchesFetched  int
	FeedEntries     int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
