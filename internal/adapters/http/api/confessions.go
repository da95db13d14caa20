// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Confession categories accepted by the check endpoint.
var confessionCategories = map[string]struct{}{
	"crush":      {},
	"academics":  {},
	"friendship": {},
	"rant":       {},
	"random":     {},
}

// ConfessionHandler handles confession moderation requests.
type ConfessionHandler struct {
	deps Dependencies
}

// NewConfessionHandler creates a new confession handler.
func NewConfessionHandler(deps Dependencies) *ConfessionHandler {
	return &ConfessionHandler{deps: deps}
}

// confessionRequest mirrors the JSON schema for POST /confessions/check.
type confessionRequest struct {
	Content  string `json:"content"`
	Category string `json:"category"`
}

func (c confessionRequest) validate() error {
	if c.Content == "" {
		return errors.New("missing content")
	}
	if c.Category != "" {
		if _, ok := confessionCategories[strings.ToLower(c.Category)]; !ok {
			return errors.New("unknown category")
		}
	}
	return nil
}

// confessionResponse reports the moderation verdict for a submission.
type confessionResponse struct {
	Sanitized string   `json:"sanitized"`
	Category  string   `json:"category,omitempty"`
	IsValid   bool     `json:"is_valid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}

// HandleCheck handles POST /confessions/check requests.
func (h *ConfessionHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	const op = "api.check_confession"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req confessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sanitized, verdict := h.deps.ReviewConfession(r.Context(), req.Content)
	writeJSON(w, http.StatusOK, confessionResponse{
		Sanitized: sanitized,
		Category:  strings.ToLower(req.Category),
		IsValid:   verdict.IsValid,
		Errors:    nonNil(verdict.Errors),
		Warnings:  nonNil(verdict.Warnings),
	})
}

// nonNil keeps empty result lists encoding as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
