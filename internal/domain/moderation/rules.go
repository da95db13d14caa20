package moderation

import "regexp"

// Severity classifies what a matched rule does to the verdict.
type Severity string

// Rule severities. Errors block the submission, warnings do not.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule is one category of prohibited content: a tag, a compiled pattern,
// and the severity applied on match. Rules are scanned in slice order and
// only the first matching rule is reported.
type Rule struct {
	Category string
	Pattern  *regexp.Regexp
	Severity Severity
	Message  string
}

// DefaultRules returns the fixed ordered rule list. Order matters: a text
// matching several categories is reported only for the earliest one.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: "real_name",
			Pattern:  regexp.MustCompile(`\b(?:[Mm]y name is|[Ii] am|[Ii]'m|[Tt]his is)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`),
			Severity: SeverityError,
			Message:  "content appears to reveal a real name",
		},
		{
			Category: "targeting",
			Pattern:  regexp.MustCompile(`(?i)\b(?:that (?:girl|guy|boy|professor) (?:from|in)|everyone knows|you all know|we all hate)\b`),
			Severity: SeverityError,
			Message:  "content appears to target a specific person",
		},
		{
			Category: "explicit",
			Pattern:  regexp.MustCompile(`(?i)\b(?:nude|naked|sexual|hookup|one night stand)\b`),
			Severity: SeverityError,
			Message:  "explicit content is not allowed",
		},
		{
			Category: "hate",
			Pattern:  regexp.MustCompile(`(?i)\b(?:kill (?:yourself|himself|herself|themselves)|deserves? to die|beat (?:him|her|them) up|go die)\b`),
			Severity: SeverityError,
			Message:  "violent or hateful content is not allowed",
		},
		{
			Category: "contact_info",
			Pattern:  regexp.MustCompile(`(?:\+?\d{1,3}[\s-]?)?\b\d{10}\b|[\w.+-]+@[\w-]+\.[\w.-]+`),
			Severity: SeverityWarning,
			Message:  "content appears to include contact information",
		},
	}
}
