// Package moderation validates free-text submissions against prohibited
// content rules.
package moderation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default heuristics thresholds.
const (
	defaultMinLength         = 10
	defaultMaxLength         = 500
	defaultSpamLimit         = 10  // max occurrences of a single word
	defaultShoutRatio        = 0.7 // uppercase letters over total characters
	defaultShoutMinLength    = 20
	collapsedNewlines        = "\n\n"
	spamWarning              = "excessive repetition of a single word"
	shoutWarning             = "mostly uppercase; consider rewriting without shouting"
	lengthTooShortError      = "content is too short"
	lengthTooLongError       = "content is too long"
)

var (
	spaceRuns   = regexp.MustCompile(`[ \t]{2,}`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
	crlf        = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Verdict is the result of reviewing a submission. The review is total:
// malformed input produces errors in the verdict, never a failure.
type Verdict struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// Option applies a configuration option to the Moderator.
type Option func(*Moderator)

// WithRules replaces the default ordered rule list.
func WithRules(rules []Rule) Option {
	return func(m *Moderator) {
		if len(rules) > 0 {
			m.rules = rules
		}
	}
}

// WithLengthBounds sets the accepted character range for sanitized text.
func WithLengthBounds(minLen, maxLen int) Option {
	return func(m *Moderator) {
		if minLen > 0 && maxLen > minLen {
			m.minLength = minLen
			m.maxLength = maxLen
		}
	}
}

// WithSpamLimit sets the per-word repetition limit before a spam warning.
func WithSpamLimit(limit int) Option {
	return func(m *Moderator) {
		if limit > 0 {
			m.spamLimit = limit
		}
	}
}

// WithShoutRatio sets the uppercase ratio above which long texts get a
// shouting warning.
func WithShoutRatio(ratio float64) Option {
	return func(m *Moderator) {
		if ratio > 0 && ratio < 1 {
			m.shoutRatio = ratio
		}
	}
}

// Moderator reviews submissions against an ordered rule list plus spam and
// shouting heuristics. Safe for concurrent use; it holds no mutable state.
type Moderator struct {
	rules      []Rule
	minLength  int
	maxLength  int
	spamLimit  int
	shoutRatio float64
}

// NewModerator creates a moderator with the default rules and thresholds.
func NewModerator(opts ...Option) *Moderator {
	m := &Moderator{
		rules:      DefaultRules(),
		minLength:  defaultMinLength,
		maxLength:  defaultMaxLength,
		spamLimit:  defaultSpamLimit,
		shoutRatio: defaultShoutRatio,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sanitize normalizes a submission: trims surrounding whitespace, collapses
// runs of spaces and tabs to a single space, and collapses three or more
// consecutive newlines to exactly two. Idempotent.
func Sanitize(text string) string {
	text = crlf.Replace(text)
	text = newlineRuns.ReplaceAllString(text, collapsedNewlines)
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Review inspects raw text and returns a verdict. The text is sanitized
// first; length bounds apply to the sanitized form. Rule scanning stops at
// the first matching category. Warnings never affect validity.
func (m *Moderator) Review(text string) Verdict {
	var v Verdict
	clean := Sanitize(text)

	// Length bounds.
	switch n := utf8.RuneCountInString(clean); {
	case n < m.minLength:
		v.Errors = append(v.Errors, lengthTooShortError)
	case n > m.maxLength:
		v.Errors = append(v.Errors, lengthTooLongError)
	}

	// Ordered prohibited-pattern scan, first match wins.
	for _, rule := range m.rules {
		if rule.Pattern.MatchString(clean) {
			if rule.Severity == SeverityError {
				v.Errors = append(v.Errors, rule.Message)
			} else {
				v.Warnings = append(v.Warnings, rule.Message)
			}
			break
		}
	}

	if m.isSpammy(clean) {
		v.Warnings = append(v.Warnings, spamWarning)
	}
	if m.isShouting(clean) {
		v.Warnings = append(v.Warnings, shoutWarning)
	}

	v.IsValid = len(v.Errors) == 0
	return v
}

// isSpammy reports whether any single case-folded word repeats past the
// configured limit.
func (m *Moderator) isSpammy(text string) bool {
	counts := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		counts[word]++
		if counts[word] > m.spamLimit {
			return true
		}
	}
	return false
}

// isShouting reports whether the text is long enough to matter and mostly
// uppercase.
func (m *Moderator) isShouting(text string) bool {
	total := utf8.RuneCountInString(text)
	if total <= defaultShoutMinLength {
		return false
	}
	var upper int
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper)/float64(total) > m.shoutRatio
}
