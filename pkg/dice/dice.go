package dice

import "math/rand"

// Roller provides deterministic dice rolling using a seeded RNG.
type Roller struct {
	rng *rand.Rand
}

// NewRoller creates a new Roller with the given seed.
func NewRoller(seed int64) *Roller {
	return &Roller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// RollD6 returns a random number between 1 and 6. Used for AI tie-breaks
// (internal/game/ai); the resolution engine's own hit/location rolls go
// through Streams' f32/weighted-index methods instead (streams.go).
func (r *Roller) RollD6() int {
	return r.rng.Intn(6) + 1
}
