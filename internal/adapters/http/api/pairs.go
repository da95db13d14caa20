// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/quad/internal/domain/model"
)

// PairsHandler handles pair submission requests.
type PairsHandler struct {
	deps Dependencies
}

// NewPairsHandler creates a new pairs handler.
func NewPairsHandler(deps Dependencies) *PairsHandler {
	return &PairsHandler{deps: deps}
}

// profilePayload mirrors the JSON schema for one side of a pair.
type profilePayload struct {
	ID         string   `json:"id"`
	CGPA       float64  `json:"cgpa"`
	Branch     string   `json:"branch"`
	Year       int      `json:"year"`
	StudyStyle string   `json:"study_style"`
	Traits     []string `json:"traits"`
	LookingFor []string `json:"looking_for"`
	Bio        string   `json:"bio"`
}

func (p profilePayload) validate(side string) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("missing " + side + ".id")
	case p.CGPA < 0 || p.CGPA > 4.0:
		return errors.New(side + ".cgpa must be within 0-4.0")
	case p.Year < 1 || p.Year > 4:
		return errors.New(side + ".year must be within 1-4")
	}
	return nil
}

func (p profilePayload) toModel() model.Profile {
	return model.Profile{
		ID:         strings.TrimSpace(p.ID),
		CGPA:       p.CGPA,
		Branch:     p.Branch,
		Year:       p.Year,
		StudyStyle: p.StudyStyle,
		Traits:     p.Traits,
		LookingFor: p.LookingFor,
		Bio:        p.Bio,
	}
}

// pairRequest mirrors the JSON schema for POST /pairs.
type pairRequest struct {
	EventID string         `json:"event_id"`
	First   profilePayload `json:"first"`
	Second  profilePayload `json:"second"`
	TS      string         `json:"ts"`
}

func (p pairRequest) validate() error {
	if err := p.First.validate("first"); err != nil {
		return err
	}
	if err := p.Second.validate("second"); err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(p.First.ID), strings.TrimSpace(p.Second.ID)) {
		return errors.New("first and second must be distinct students")
	}
	if p.TS != "" {
		if _, err := time.Parse(time.RFC3339, p.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

// HandlePostPair handles POST /pairs requests.
func (h *PairsHandler) HandlePostPair(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_pair"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Clients may omit event_id; mint one so retries remain possible.
	if strings.TrimSpace(req.EventID) == "" {
		req.EventID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	ts := time.Now()
	if req.TS != "" {
		ts, _ = time.Parse(time.RFC3339, req.TS)
	}
	event := model.PairEvent{
		EventID: req.EventID,
		First:   req.First.toModel(),
		Second:  req.Second.toModel(),
		TS:      ts,
	}

	// Try to enqueue for async scoring
	if ok := h.deps.SubmitPair(r.Context(), event); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
