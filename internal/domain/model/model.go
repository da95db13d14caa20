// Package model contains domain models passed between layers.
package model

import "time"

// Study style values recognized by the compatibility engine.
const (
	StyleEarlyBird = "early_bird"
	StyleNightOwl  = "night_owl"
	StyleBalanced  = "balanced"
)

// Profile describes a student for compatibility scoring.
// CGPA is on the 0-4.0 scale. A profile is immutable for the
// duration of a scoring call.
type Profile struct {
	ID         string   // student identifier
	CGPA       float64  // cumulative GPA, 0-4.0
	Branch     string   // academic branch, e.g. "cse", "mech"
	Year       int      // 1-4
	StudyStyle string   // one of the Style* constants
	Traits     []string // personality tags
	LookingFor []string // desired connection types
	Bio        string   // free text, unused by scoring
}

// MatchStatus tracks the lifecycle of a computed match.
type MatchStatus string

// Match lifecycle states. A match starts Pending and moves exactly once
// to one of the terminal states when either party acts on it.
const (
	StatusPending  MatchStatus = "pending"
	StatusAccepted MatchStatus = "accepted"
	StatusRejected MatchStatus = "rejected"
	StatusBlocked  MatchStatus = "blocked"
)

// ValidStatus reports whether s is a known match status.
func ValidStatus(s MatchStatus) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusBlocked:
		return true
	}
	return false
}

// PairEvent is a request to score one pair of profiles.
// Fields mirror the JSON schema for POST /pairs.
type PairEvent struct {
	EventID string    // unique id for idempotency
	First   Profile   // reasons are phrased from this profile's perspective
	Second  Profile
	TS      time.Time // submission timestamp
}
