// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/campuskit/quad/internal/domain/alerts"
)

// AlertsHandler handles alert evaluation requests.
type AlertsHandler struct {
	deps Dependencies
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(deps Dependencies) *AlertsHandler {
	return &AlertsHandler{deps: deps}
}

// alertsRequest mirrors the JSON schema for POST /alerts/evaluate.
type alertsRequest struct {
	StudentID           string                  `json:"student_id"`
	Timetable           []alerts.TimetableEntry `json:"timetable"`
	LastAttendanceCheck string                  `json:"last_attendance_check"`
	Now                 string                  `json:"now"`
}

func (a alertsRequest) validate() error {
	if strings.TrimSpace(a.StudentID) == "" {
		return errors.New("missing student_id")
	}
	if a.LastAttendanceCheck != "" {
		if _, err := time.Parse(time.RFC3339, a.LastAttendanceCheck); err != nil {
			return errors.New("invalid last_attendance_check; must be RFC3339")
		}
	}
	if a.Now != "" {
		if _, err := time.Parse(time.RFC3339, a.Now); err != nil {
			return errors.New("invalid now; must be RFC3339")
		}
	}
	return nil
}

// alertsResponse wraps the evaluated alert list.
type alertsResponse struct {
	Alerts []alerts.Alert `json:"alerts"`
}

// HandleEvaluate handles POST /alerts/evaluate requests.
func (h *AlertsHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate_alerts"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req alertsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	var lastCheck *time.Time
	if req.LastAttendanceCheck != "" {
		t, _ := time.Parse(time.RFC3339, req.LastAttendanceCheck)
		lastCheck = &t
	}
	var now time.Time
	if req.Now != "" {
		now, _ = time.Parse(time.RFC3339, req.Now)
	}

	list := h.deps.EvaluateAlerts(r.Context(), req.StudentID, req.Timetable, lastCheck, now)
	if list == nil {
		list = []alerts.Alert{}
	}
	writeJSON(w, http.StatusOK, alertsResponse{Alerts: list})
}
