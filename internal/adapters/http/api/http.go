// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/campuskit/quad/internal/domain/alerts"
	"github.com/campuskit/quad/internal/domain/model"
	"github.com/campuskit/quad/internal/domain/moderation"
	"github.com/campuskit/quad/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Idempotency operations for pair event submission.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)

	// SubmitPair pushes a pair event for async scoring. Returns false on
	// backpressure.
	SubmitPair(ctx context.Context, e model.PairEvent) bool

	// Read operations expose match feed data.
	TopMatches(ctx context.Context, n int) ([]Entry, error)
	Match(ctx context.Context, pairID string) (Entry, error)

	// SetMatchStatus applies a match status transition.
	SetMatchStatus(ctx context.Context, pairID, status string) error

	// ReviewConfession sanitizes and moderates a confession submission.
	ReviewConfession(ctx context.Context, text string) (string, moderation.Verdict)

	// EvaluateAlerts runs one alert evaluation pass for a student.
	EvaluateAlerts(ctx context.Context, studentID string, timetable []alerts.TimetableEntry, lastCheck *time.Time, now time.Time) []alerts.Alert
}

// Entry mirrors the read shape returned by match feed queries.
type Entry = types.MatchEntry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	pairsHandler      *PairsHandler
	matchesHandler    *MatchesHandler
	confessionHandler *ConfessionHandler
	alertsHandler     *AlertsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxFeedLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		pairsHandler:      NewPairsHandler(deps),
		matchesHandler:    NewMatchesHandler(deps, maxFeedLimit),
		confessionHandler: NewConfessionHandler(deps),
		alertsHandler:     NewAlertsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/pairs", MetricsMiddleware(s.pairsHandler.HandlePostPair, "pairs"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleGetFeed, "matches"))
	mux.HandleFunc("/matches/", MetricsMiddleware(s.matchesHandler.HandleMatch, "match"))
	mux.HandleFunc("/confessions/check", MetricsMiddleware(s.confessionHandler.HandleCheck, "confessions"))
	mux.HandleFunc("/alerts/evaluate", MetricsMiddleware(s.alertsHandler.HandleEvaluate, "alerts"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
