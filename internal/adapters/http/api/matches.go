// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// MatchesHandler handles match feed and per-pair match requests.
type MatchesHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies, maxLimit int) *MatchesHandler {
	return &MatchesHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetFeed handles GET /matches?limit=N requests.
func (h *MatchesHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matches"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopMatches(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// statusRequest mirrors the JSON schema for POST /matches/{pair_id}/status.
type statusRequest struct {
	Status string `json:"status"`
}

// HandleMatch dispatches GET /matches/{pair_id} and
// POST /matches/{pair_id}/status requests.
func (h *MatchesHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/matches/")
	if rest, ok := strings.CutSuffix(path, "/status"); ok {
		h.handleSetStatus(w, r, rest)
		return
	}
	h.handleGetMatch(w, r, path)
}

func (h *MatchesHandler) handleGetMatch(w http.ResponseWriter, r *http.Request, pairID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if pairID == "" || strings.Contains(pairID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entry, err := h.deps.Match(r.Context(), pairID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *MatchesHandler) handleSetStatus(w http.ResponseWriter, r *http.Request, pairID string) {
	const op = "api.set_match_status"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if pairID == "" || strings.Contains(pairID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	err := h.deps.SetMatchStatus(r.Context(), pairID, strings.ToLower(strings.TrimSpace(req.Status)))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case isBadTransition(err):
		writeError(w, http.StatusConflict, "conflict", err)
	case isBadStatus(err):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// isBadTransition recognizes rejected status transitions.
func isBadTransition(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "transition")
}

// isBadStatus recognizes unknown status values.
func isBadStatus(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unknown match status")
}
