// Package alerts derives time-sensitive notices from timetable data and
// attendance bookkeeping.
package alerts

import (
	"sort"
	"time"
)

// Type identifies the kind of alert produced.
type Type string

// Alert types.
const (
	TypeClassReminder     Type = "class_reminder"
	TypeAttendanceWarning Type = "attendance_warning"
	TypeUpcomingDeadline  Type = "upcoming_deadline"
)

// Priority orders alerts for display.
type Priority string

// Alert priorities, highest first.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// priorityRank maps priorities to sort weight; higher sorts earlier.
var priorityRank = map[Priority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Alert is an ephemeral notice, recomputed on every evaluation pass.
type Alert struct {
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Priority    Priority  `json:"priority"`
	GeneratedAt time.Time `json:"generated_at"`
	ActionRef   string    `json:"action_ref,omitempty"`
}

// Key returns the stable identity callers use to suppress repeats across
// polling intervals. The evaluator itself never deduplicates.
func (a Alert) Key() string {
	return string(a.Type) + "|" + a.Title
}

// TimetableEntry is one scheduled class. Start and End use "15:04" wall
// clock form; Day is a weekday name.
type TimetableEntry struct {
	Day     string `json:"day"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Subject string `json:"subject"`
	Room    string `json:"room"`
}

// sortAlerts orders by priority descending, then generation time ascending.
func sortAlerts(list []Alert) {
	sort.SliceStable(list, func(i, j int) bool {
		pi, pj := priorityRank[list[i].Priority], priorityRank[list[j].Priority]
		if pi != pj {
			return pi > pj
		}
		return list[i].GeneratedAt.Before(list[j].GeneratedAt)
	})
}
