// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	eventqueue "github.com/campuskit/quad/internal/adapters/mq/queue"
	workerpool "github.com/campuskit/quad/internal/adapters/mq/worker"
	"github.com/campuskit/quad/internal/adapters/repository"
	"github.com/campuskit/quad/internal/domain/alerts"
	"github.com/campuskit/quad/internal/domain/dedupe"
	"github.com/campuskit/quad/internal/domain/match"
	"github.com/campuskit/quad/internal/domain/model"
	"github.com/campuskit/quad/internal/domain/moderation"
	"github.com/campuskit/quad/internal/domain/types"
	"github.com/campuskit/quad/pkg/logger"
	"github.com/campuskit/quad/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize  = 100000
	defaultDedupeSize = 50000
)

// Sentinel kinds for service errors.
var (
	ErrNotFound      = errors.New("pair not found")
	ErrBadStatus     = errors.New("unknown match status")
	ErrBadTransition = errors.New("illegal status transition")
)

// fixedClock pins the alert evaluator to an externally supplied instant.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Service wires the engines, queue, workers, and match store together.
type Service struct {
	mu sync.RWMutex

	// Core components
	board      repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	engine     match.Engine
	moderator  *moderation.Moderator
	alertState alerts.StateStore
	workerPool *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	// Moderation thresholds
	confessionMin int
	confessionMax int
	spamLimit     int
	shoutRatio    float64
	// Alert thresholds
	reminderWindow time.Duration
	highWindow     time.Duration
	staleAfter     time.Duration
	suppressFor    time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the pair event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithModerationLimits sets the confession length bounds and heuristics
// thresholds.
func WithModerationLimits(minLen, maxLen, spamLimit int, shoutRatio float64) Option {
	return func(s *Service) {
		if minLen > 0 && maxLen > minLen {
			s.confessionMin = minLen
			s.confessionMax = maxLen
		}
		if spamLimit > 0 {
			s.spamLimit = spamLimit
		}
		if shoutRatio > 0 && shoutRatio < 1 {
			s.shoutRatio = shoutRatio
		}
	}
}

// WithAlertThresholds sets the reminder windows, staleness threshold, and
// warning suppression window.
func WithAlertThresholds(reminderWindow, highWindow, staleAfter, suppressFor time.Duration) Option {
	return func(s *Service) {
		if reminderWindow > 0 && highWindow > 0 && highWindow < reminderWindow {
			s.reminderWindow = reminderWindow
			s.highWindow = highWindow
		}
		if staleAfter > 0 && suppressFor > 0 {
			s.staleAfter = staleAfter
			s.suppressFor = suppressFor
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,

		confessionMin: 10,
		confessionMax: 500,
		spamLimit:     10,
		shoutRatio:    0.7,

		reminderWindow: 15 * time.Minute,
		highWindow:     5 * time.Minute,
		staleAfter:     7 * 24 * time.Hour,
		suppressFor:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting campus service...")

	s.board = repository.NewMatchBoard(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithBufferSize(s.queueSize),
	)
	s.engine = match.NewRuleEngine()
	s.moderator = moderation.NewModerator(
		moderation.WithLengthBounds(s.confessionMin, s.confessionMax),
		moderation.WithSpamLimit(s.spamLimit),
		moderation.WithShoutRatio(s.shoutRatio),
	)
	s.alertState = alerts.NewInMemoryStateStore()

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.engine, s.board)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "campus service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping campus service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.board != nil {
		if closer, ok := s.board.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(ctx, "campus service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it if
// not. Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordPairDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// SubmitPair enqueues a pair event for asynchronous scoring. Returns false
// on backpressure.
func (s *Service) SubmitPair(ctx context.Context, e model.PairEvent) bool {
	s.logger.Debug(ctx, "enqueueing pair event",
		logger.String("eventID", e.EventID),
		logger.String("first", e.First.ID),
		logger.String("second", e.Second.ID),
	)
	ok := s.eventQueue.Enqueue(ctx, e)
	if ok {
		metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
	}
	return ok
}

// TopMatches returns the top N match feed entries.
func (s *Service) TopMatches(ctx context.Context, n int) ([]types.MatchEntry, error) {
	entries, err := s.board.TopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("match feed read failed: %w", err)
	}

	out := make([]types.MatchEntry, len(entries))
	for i, e := range entries {
		out[i] = toMatchEntry(e)
	}
	return out, nil
}

// Match returns the standing for a given pair id.
func (s *Service) Match(ctx context.Context, pairID string) (types.MatchEntry, error) {
	entry, err := s.board.Rank(ctx, pairID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return types.MatchEntry{}, ErrNotFound
		}
		return types.MatchEntry{}, fmt.Errorf("rank read failed: %w", err)
	}
	return toMatchEntry(entry), nil
}

// SetMatchStatus applies a status transition requested by either party.
func (s *Service) SetMatchStatus(ctx context.Context, pairID, status string) error {
	target := model.MatchStatus(status)
	if !model.ValidStatus(target) {
		return ErrBadStatus
	}
	err := s.board.SetStatus(ctx, pairID, target)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrBadTransition):
		return ErrBadTransition
	case err != nil:
		return fmt.Errorf("status update failed: %w", err)
	}
	metrics.RecordStatusTransition(status)
	return nil
}

// ReviewConfession sanitizes and moderates a confession submission.
func (s *Service) ReviewConfession(ctx context.Context, text string) (string, moderation.Verdict) {
	clean := moderation.Sanitize(text)
	verdict := s.moderator.Review(text)
	metrics.RecordConfessionReviewed(verdict.IsValid)
	s.logger.Debug(ctx, "reviewed confession",
		logger.Bool("valid", verdict.IsValid),
		logger.Int("errors", len(verdict.Errors)),
		logger.Int("warnings", len(verdict.Warnings)),
	)
	return clean, verdict
}

// EvaluateAlerts runs one evaluation pass for a student. A zero `now`
// means the server clock; suppression state persists across calls through
// the shared state store.
func (s *Service) EvaluateAlerts(ctx context.Context, studentID string, timetable []alerts.TimetableEntry, lastCheck *time.Time, now time.Time) []alerts.Alert {
	if now.IsZero() {
		now = time.Now()
	}
	ev := alerts.NewEvaluator(
		alerts.WithClock(fixedClock{t: now}),
		alerts.WithStateStore(s.alertState),
		alerts.WithReminderWindows(s.reminderWindow, s.highWindow),
		alerts.WithAttendanceThresholds(s.staleAfter, s.suppressFor),
	)
	list := ev.Evaluate(ctx, studentID, timetable, lastCheck)
	for _, a := range list {
		metrics.RecordAlertEmitted(string(a.Type))
	}
	return list
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		totalPairs := s.board.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalPairs"] = totalPairs

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalPairs(totalPairs)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return stats
}

// toMatchEntry converts a store row into the API read shape.
func toMatchEntry(e repository.Entry) types.MatchEntry {
	return types.MatchEntry{
		Rank:    e.Rank,
		PairID:  e.PairID,
		Score:   e.Score,
		League:  e.League,
		Reasons: e.Reasons,
		Status:  string(e.Status),
	}
}
