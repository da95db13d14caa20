// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer defaults -> optional file -> env in Load.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory pair event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxFeedLimit caps GET /matches?limit.
	MaxFeedLimit int `koanf:"max_feed_limit"`

	// Moderation thresholds.
	ConfessionMinLength int     `koanf:"confession_min_length"`
	ConfessionMaxLength int     `koanf:"confession_max_length"`
	SpamWordLimit       int     `koanf:"spam_word_limit"`
	ShoutRatio          float64 `koanf:"shout_ratio"`

	// Alert evaluator thresholds.
	ReminderWindowMinutes int `koanf:"reminder_window_minutes"`
	ReminderHighMinutes   int `koanf:"reminder_high_minutes"`
	AttendanceStaleDays   int `koanf:"attendance_stale_days"`
	AlertSuppressHours    int `koanf:"alert_suppress_hours"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		EventQueueSize: 100_000,
		WorkerCount:    runtime.NumCPU() * 2,
		DedupeSize:     500_000,
		MaxFeedLimit:   100,

		ConfessionMinLength: 10,
		ConfessionMaxLength: 500,
		SpamWordLimit:       10,
		ShoutRatio:          0.7,

		ReminderWindowMinutes: 15,
		ReminderHighMinutes:   5,
		AttendanceStaleDays:   7,
		AlertSuppressHours:    24,
	}
}
