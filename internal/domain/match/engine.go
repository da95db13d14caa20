// Package match defines the contract for computing compatibility between
// two student profiles.
package match

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/campuskit/quad/internal/domain/model"
)

// Scoring rubric constants. Points are summed and clamped at maxScore.
const (
	maxScore = 100

	cgpaClosePoints    = 30 // abs diff <= 0.5
	cgpaNearPoints     = 20 // abs diff <= 1.0
	cgpaFarPoints      = 10 // abs diff <= 1.5
	cgpaCloseThreshold = 0.5
	cgpaNearThreshold  = 1.0
	cgpaFarThreshold   = 1.5

	sameBranchPoints  = 20
	otherBranchPoints = 5

	sameYearPoints     = 15
	adjacentYearPoints = 10

	sameStylePoints          = 15
	complementaryStylePoints = 10

	traitPointValue = 7
	traitPointsCap  = 20

	connectionBonus = 10
)

// Input abstracts the profile pair needed for scoring. Reasons are phrased
// from First's perspective, so callers must order the pair accordingly.
type Input struct {
	First  model.Profile
	Second model.Profile
}

// Result contains the computed compatibility for a pair.
type Result struct {
	PairID  string
	Score   int
	League  string // league of the First profile
	Reasons []string
}

// Engine computes a compatibility score from a profile pair.
type Engine interface {
	// Score computes a score in [0,100], honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (Result, error)
}

// RuleEngine implements Engine with the fixed campus rubric. It holds no
// state; results are deterministic for a fixed input.
type RuleEngine struct{}

// NewRuleEngine creates a new rubric-based engine.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// PairKey returns the order-independent identifier for a profile pair.
// The lexicographically smaller ID goes first, so one pair maps to one
// match row regardless of submission order.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// Score computes the compatibility for the given pair.
func (e *RuleEngine) Score(ctx context.Context, in Input) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	var (
		points  int
		reasons []string
	)

	// CGPA closeness.
	diff := math.Abs(in.First.CGPA - in.Second.CGPA)
	switch {
	case diff <= cgpaCloseThreshold:
		points += cgpaClosePoints
		reasons = append(reasons, "Similar academic performance")
	case diff <= cgpaNearThreshold:
		points += cgpaNearPoints
		reasons = append(reasons, "Close academic levels")
	case diff <= cgpaFarThreshold:
		points += cgpaFarPoints
	}

	// Branch.
	if equalFold(in.First.Branch, in.Second.Branch) {
		points += sameBranchPoints
		reasons = append(reasons, fmt.Sprintf("Same branch (%s)", in.First.Branch))
	} else {
		points += otherBranchPoints
	}

	// Year.
	switch yearGap := absInt(in.First.Year - in.Second.Year); yearGap {
	case 0:
		points += sameYearPoints
		reasons = append(reasons, fmt.Sprintf("Same year (year %d)", in.First.Year))
	case 1:
		points += adjacentYearPoints
		reasons = append(reasons, "Adjacent years on campus")
	}

	// Study style.
	switch {
	case in.First.StudyStyle != "" && in.First.StudyStyle == in.Second.StudyStyle:
		points += sameStylePoints
		reasons = append(reasons, "Matching study styles")
	case complementaryStyles(in.First.StudyStyle, in.Second.StudyStyle):
		points += complementaryStylePoints
		reasons = append(reasons, "Complementary study schedules")
	}

	// Personality overlap, capped.
	if shared := intersect(in.First.Traits, in.Second.Traits); len(shared) > 0 {
		traitPoints := len(shared) * traitPointValue
		if traitPoints > traitPointsCap {
			traitPoints = traitPointsCap
		}
		points += traitPoints
		reasons = append(reasons, "Shared traits: "+strings.Join(shared, ", "))
	}

	// Connection-type overlap bonus.
	if shared := intersect(in.First.LookingFor, in.Second.LookingFor); len(shared) > 0 {
		points += connectionBonus
		reasons = append(reasons, "Both looking for: "+strings.Join(shared, ", "))
	}

	if points > maxScore {
		points = maxScore
	}
	if len(reasons) == 0 {
		reasons = []string{"Potential match based on campus proximity"}
	}

	return Result{
		PairID:  PairKey(in.First.ID, in.Second.ID),
		Score:   points,
		League:  League(in.First.CGPA),
		Reasons: reasons,
	}, nil
}

// complementaryStyles reports whether the two study styles pair well
// despite not matching: balanced pairs with either extreme, in either
// direction.
func complementaryStyles(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == model.StyleBalanced {
		a, b = b, a
	}
	if b != model.StyleBalanced {
		return false
	}
	return a == model.StyleEarlyBird || a == model.StyleNightOwl
}

// intersect returns the case-folded values present in both sets,
// sorted for stable reason phrasing.
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	in := make(map[string]bool, len(a))
	for _, v := range a {
		in[strings.ToLower(strings.TrimSpace(v))] = true
	}
	seen := make(map[string]bool, len(b))
	var shared []string
	for _, v := range b {
		key := strings.ToLower(strings.TrimSpace(v))
		if key != "" && in[key] && !seen[key] {
			seen[key] = true
			shared = append(shared, key)
		}
	}
	sort.Strings(shared)
	return shared
}

func equalFold(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
