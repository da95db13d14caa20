package repository

import (
	"context"
	"math/rand"
	"sync"

	"github.com/campuskit/quad/internal/domain/model"
	"github.com/campuskit/quad/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: score DESC, then pairID ASC (deterministic). The BST comparator
// treats "less" as "ranks earlier", so in-order traversal yields the match
// feed from best to worst. Heap priorities are random, keeping the tree
// balanced in expectation regardless of insertion order.

// record stores the score plus metadata for one pair.
type record struct {
	score   int
	league  string
	reasons []string
	status  model.MatchStatus
	eventID string
}

// node is one treap node, size-augmented for order-statistic rank queries.
type node struct {
	id    string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aScore, aID) ranks earlier than (bScore, bID).
func less(aScore int, aID string, bScore int, bID string) bool {
	if aScore != bScore {
		return aScore > bScore // higher score ranks earlier
	}
	return aID < bID // tie-breaker by pair id asc
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(root *node, n *node) *node {
	if root == nil {
		n.size = 1
		return n
	}
	if less(n.score, n.id, root.score, root.id) {
		root.left = insert(root.left, n)
		if root.left.prio > root.prio {
			root = rotateRight(root)
		}
	} else {
		root.right = insert(root.right, n)
		if root.right.prio > root.prio {
			root = rotateLeft(root)
		}
	}
	fix(root)
	return root
}

func remove(root *node, score int, id string) *node {
	if root == nil {
		return nil
	}
	switch {
	case score == root.score && id == root.id:
		switch {
		case root.left == nil:
			return root.right
		case root.right == nil:
			return root.left
		case root.left.prio > root.right.prio:
			root = rotateRight(root)
			root.right = remove(root.right, score, id)
		default:
			root = rotateLeft(root)
			root.left = remove(root.left, score, id)
		}
	case less(score, id, root.score, root.id):
		root.left = remove(root.left, score, id)
	default:
		root.right = remove(root.right, score, id)
	}
	fix(root)
	return root
}

// position returns the zero-based in-order index of (score, id).
func position(root *node, score int, id string) int {
	pos := 0
	for root != nil {
		if score == root.score && id == root.id {
			return pos + nsize(root.left)
		}
		if less(score, id, root.score, root.id) {
			root = root.left
		} else {
			pos += nsize(root.left) + 1
			root = root.right
		}
	}
	return -1
}

// MatchBoard implements Store with a treap plus a pairID index.
type MatchBoard struct {
	mu      sync.RWMutex
	root    *node
	records map[string]*record
	rng     *rand.Rand
}

// NewMatchBoard creates an empty match store.
func NewMatchBoard(ctx context.Context) *MatchBoard {
	return &MatchBoard{
		records: make(map[string]*record),
		rng:     rand.New(rand.NewSource(rand.Int63())), //nolint:gosec // treap priorities, not security sensitive
	}
}

// UpdatePair records the computed result for a pair.
func (b *MatchBoard) UpdatePair(ctx context.Context, pairID string, score int, league string, reasons []string, eventID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, exists := b.records[pairID]
	if exists {
		sameScore := rec.score == score
		if !sameScore {
			b.root = remove(b.root, rec.score, pairID)
			b.root = insert(b.root, &node{id: pairID, score: score, prio: b.rng.Uint64()})
		}
		rec.score = score
		rec.league = league
		rec.reasons = reasons
		rec.eventID = eventID
		return !sameScore, nil
	}

	b.records[pairID] = &record{
		score:   score,
		league:  league,
		reasons: reasons,
		status:  model.StatusPending,
		eventID: eventID,
	}
	b.root = insert(b.root, &node{id: pairID, score: score, prio: b.rng.Uint64()})
	metrics.UpdateTotalPairs(len(b.records))
	return true, nil
}

// Rank returns the current standing for a pair.
func (b *MatchBoard) Rank(ctx context.Context, pairID string) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.records[pairID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	pos := position(b.root, rec.score, pairID)
	if pos < 0 {
		// Index and tree disagree; treat as unknown rather than guessing.
		return Entry{}, ErrNotFound
	}
	return b.entry(pairID, rec, pos+1), nil
}

// TopN returns the top-N entries ordered by score desc.
func (b *MatchBoard) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := make([]Entry, 0, n)
	var walk func(*node) bool
	walk = func(nd *node) bool {
		if nd == nil {
			return true
		}
		if !walk(nd.left) {
			return false
		}
		if len(entries) >= n {
			return false
		}
		if rec, ok := b.records[nd.id]; ok {
			entries = append(entries, b.entry(nd.id, rec, len(entries)+1))
		}
		return walk(nd.right)
	}
	walk(b.root)
	return entries, nil
}

// SetStatus applies a status transition.
func (b *MatchBoard) SetStatus(ctx context.Context, pairID string, status model.MatchStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.records[pairID]
	if !ok {
		return ErrNotFound
	}
	if rec.status != model.StatusPending || status == model.StatusPending {
		return ErrBadTransition
	}
	rec.status = status
	return nil
}

// Count returns the number of pairs tracked in the store.
func (b *MatchBoard) Count(ctx context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Close releases the store. Nothing to flush for the in-memory board.
func (b *MatchBoard) Close() error {
	return nil
}

// entry builds an Entry snapshot; callers hold at least the read lock.
func (b *MatchBoard) entry(pairID string, rec *record, rank int) Entry {
	reasons := make([]string, len(rec.reasons))
	copy(reasons, rec.reasons)
	return Entry{
		Rank:    rank,
		PairID:  pairID,
		Score:   rec.score,
		League:  rec.league,
		Reasons: reasons,
		Status:  rec.status,
		EventID: rec.eventID,
	}
}
