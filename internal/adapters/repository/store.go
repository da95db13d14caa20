// Package repository defines the match store interface and errors.
package repository

import (
	"context"

	"github.com/campuskit/quad/internal/domain/model"
)

// Entry represents one row of the match feed.
type Entry struct {
	Rank    int
	PairID  string
	Score   int
	League  string
	Reasons []string
	Status  model.MatchStatus
	EventID string
}

// Store provides read/write access to the scored-pair state.
type Store interface {
	// UpdatePair records the computed result for a pair, inserting it or
	// replacing a previous result. New pairs start pending; replacing a
	// result preserves the existing status. Returns true when the feed
	// changed (new pair or changed score).
	UpdatePair(ctx context.Context, pairID string, score int, league string, reasons []string, eventID string) (bool, error)

	// Rank returns the current standing for a pair.
	// Returns ErrNotFound if the pair is unknown.
	Rank(ctx context.Context, pairID string) (Entry, error)

	// TopN returns the top-N entries ordered by score desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// SetStatus applies a status transition. Only pending pairs may move,
	// and only to accepted, rejected, or blocked.
	SetStatus(ctx context.Context, pairID string, status model.MatchStatus) error

	// Count returns the number of pairs tracked in the store.
	Count(ctx context.Context) int
}
