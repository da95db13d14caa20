package loadgen

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/campuskit/quad/pkg/logger"
)

const randomFloatDivisor = 1000000

// Campus vocabulary used to synthesize plausible profiles.
var (
	branches    = []string{"cse", "ece", "mech", "civil", "eee", "it"}
	styles      = []string{"early_bird", "night_owl", "balanced"}
	traitPool   = []string{"curious", "organized", "chill", "competitive", "creative", "outgoing", "quiet", "focused"}
	lookingPool = []string{"study buddy", "project partner", "gym partner", "coffee chats"}
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pickInt returns a uniformly random int in [0, n).
func pickInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// pickSome returns up to max distinct entries from pool.
func pickSome(pool []string, max int) []string {
	count := 1 + pickInt(max)
	out := make([]string, 0, count)
	seen := map[int]struct{}{}
	for len(out) < count {
		i := pickInt(len(pool))
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, pool[i])
	}
	return out
}

// generatePairs creates the requested number of pair events with unique
// student IDs per pair.
func generatePairs(ctx context.Context, config *Config, stats *Stats) ([]PairEvent, error) {
	logger.Get().Info(ctx, "generating pair events", logger.Int("numPairs", config.NumPairs))

	pairs := make([]PairEvent, config.NumPairs)
	for i := range pairs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		pairs[i] = PairEvent{
			EventID: uuid.NewString(),
			First:   generateProfile(),
			Second:  generateProfile(),
			TS:      time.Now().UTC().Format(time.RFC3339),
		}
	}

	stats.PairsGenerated = len(pairs)
	logger.Get().Info(ctx, "generated pair events", logger.Int("count", len(pairs)))
	return pairs, nil
}

// generateProfile synthesizes a single student profile. CGPA follows a
// rough bell curve so leagues are populated unevenly, like a real campus.
func generateProfile() Profile {
	cgpa := (getRandomFloat() + getRandomFloat() + getRandomFloat()) / 3.0 * 4.0
	return Profile{
		ID:         uuid.NewString(),
		CGPA:       float64(int(cgpa*100)) / 100,
		Branch:     branches[pickInt(len(branches))],
		Year:       1 + pickInt(4),
		StudyStyle: styles[pickInt(len(styles))],
		Traits:     pickSome(traitPool, 4),
		LookingFor: pickSome(lookingPool, 2),
	}
}
