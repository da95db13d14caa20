package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Default evaluator thresholds.
const (
	defaultReminderWindow = 15 * time.Minute
	defaultHighWindow     = 5 * time.Minute
	defaultStaleAfter     = 7 * 24 * time.Hour
	defaultSuppressFor    = 24 * time.Hour

	// missingCheckDays stands in for "never checked": always stale.
	missingCheckDays = 999

	startTimeLayout = "15:04"
)

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(e *Evaluator) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithStateStore sets the store for last-shown timestamps.
func WithStateStore(s StateStore) Option {
	return func(e *Evaluator) {
		if s != nil {
			e.state = s
		}
	}
}

// WithReminderWindows sets the class-reminder window and the cutoff below
// which reminders become high priority.
func WithReminderWindows(window, high time.Duration) Option {
	return func(e *Evaluator) {
		if window > 0 && high > 0 && high < window {
			e.reminderWindow = window
			e.highWindow = high
		}
	}
}

// WithAttendanceThresholds sets the staleness threshold and the suppression
// window between repeated attendance warnings.
func WithAttendanceThresholds(staleAfter, suppressFor time.Duration) Option {
	return func(e *Evaluator) {
		if staleAfter > 0 && suppressFor > 0 {
			e.staleAfter = staleAfter
			e.suppressFor = suppressFor
		}
	}
}

// Evaluator derives alerts from a timetable and attendance bookkeeping.
// Each call is independent and idempotent for a fixed clock reading.
type Evaluator struct {
	clock          Clock
	state          StateStore
	reminderWindow time.Duration
	highWindow     time.Duration
	staleAfter     time.Duration
	suppressFor    time.Duration
}

// NewEvaluator creates an evaluator with the default thresholds, the system
// clock, and an in-memory state store.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		clock:          systemClock{},
		state:          NewInMemoryStateStore(),
		reminderWindow: defaultReminderWindow,
		highWindow:     defaultHighWindow,
		staleAfter:     defaultStaleAfter,
		suppressFor:    defaultSuppressFor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate produces all alerts for one student: class reminders for today's
// entries plus an attendance warning when due. The result is sorted by
// priority descending, then generation time ascending.
func (e *Evaluator) Evaluate(ctx context.Context, studentID string, timetable []TimetableEntry, lastCheck *time.Time) []Alert {
	now := e.clock.Now()
	list := e.classReminders(timetable, now)
	if a := e.attendanceAlert(ctx, studentID, lastCheck, now); a != nil {
		list = append(list, *a)
	}
	sortAlerts(list)
	return list
}

// ClassReminders returns reminders for entries starting within the window.
func (e *Evaluator) ClassReminders(ctx context.Context, timetable []TimetableEntry) []Alert {
	list := e.classReminders(timetable, e.clock.Now())
	sortAlerts(list)
	return list
}

func (e *Evaluator) classReminders(timetable []TimetableEntry, now time.Time) []Alert {
	var list []Alert
	today := now.Weekday().String()
	nowMinutes := now.Hour()*60 + now.Minute()

	for _, entry := range timetable {
		if !strings.EqualFold(entry.Day, today) {
			continue
		}
		start, err := time.Parse(startTimeLayout, entry.Start)
		if err != nil {
			// Malformed entries are skipped, never fatal.
			continue
		}
		until := start.Hour()*60 + start.Minute() - nowMinutes
		windowMinutes := int(e.reminderWindow.Minutes())
		if until <= 0 || until > windowMinutes {
			continue
		}
		priority := PriorityMedium
		if until <= int(e.highWindow.Minutes()) {
			priority = PriorityHigh
		}
		subject := entry.Subject
		if subject == "" {
			subject = "Class"
		}
		msg := fmt.Sprintf("%s starts in %d min", subject, until)
		if entry.Room != "" {
			msg += " in " + entry.Room
		}
		list = append(list, Alert{
			Type:        TypeClassReminder,
			Title:       subject + " starting soon",
			Message:     msg,
			Priority:    priority,
			GeneratedAt: now,
			ActionRef:   entry.Room,
		})
	}
	return list
}

// AttendanceAlert returns a staleness warning when due, or nil. A missing
// last-check reads as 999 days stale. The warning is suppressed while the
// previously shown one is younger than the suppression window; emitting
// records the shown time in the state store.
func (e *Evaluator) AttendanceAlert(ctx context.Context, studentID string, lastCheck *time.Time) *Alert {
	return e.attendanceAlert(ctx, studentID, lastCheck, e.clock.Now())
}

func (e *Evaluator) attendanceAlert(ctx context.Context, studentID string, lastCheck *time.Time, now time.Time) *Alert {
	staleDays := missingCheckDays
	if lastCheck != nil {
		staleDays = int(now.Sub(*lastCheck).Hours() / 24)
	}
	if staleDays < int(e.staleAfter.Hours()/24) {
		return nil
	}

	shownKey := "attendance_last_shown|" + studentID
	if shown, ok := e.state.Get(ctx, shownKey); ok && now.Sub(shown) < e.suppressFor {
		return nil
	}
	e.state.Put(ctx, shownKey, now)

	msg := fmt.Sprintf("No attendance check in %d days", staleDays)
	if lastCheck == nil {
		msg = "Attendance has never been checked"
	}
	return &Alert{
		Type:        TypeAttendanceWarning,
		Title:       "Attendance check overdue",
		Message:     msg,
		Priority:    PriorityMedium,
		GeneratedAt: now,
	}
}
