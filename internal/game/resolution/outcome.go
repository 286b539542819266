package resolution

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/pkg/dice"
)

// Outcome classifies how an individual technique resolved.
type Outcome string

const (
	OutcomeMiss    Outcome = "miss"
	OutcomeParry   Outcome = "parry"
	OutcomeDeflect Outcome = "deflect"
	OutcomeBlock   Outcome = "block"
	OutcomeGlance  Outcome = "glance"
	OutcomeClean   Outcome = "clean_hit"
)

// defenceBand is one entry of the defender's active-defence ladder,
// ordered from best (parry) to worst (clean_hit through); each entry's
// threshold is a probability band added to the running total, with
// defender coverage widening the bands in the defender's favour.
type defenceBand struct {
	outcome   Outcome
	threshold float64
}

// RollOutcome resolves hit/miss, then (on a hit) rolls the defender's
// active-defence ladder: parry -> deflect -> block -> glance -> clean
// hit, biased by the defender coverage passed in (guard is not
// consulted). Always consumes exactly two RNG draws, hit or miss, per the
// teacher's always-consume-RNG discipline.
func RollOutcome(roller *dice.Roller, hitChance float64, coverage float64, guard template.GuardHeight) Outcome {
	hitRoll := roller.F32()
	defRoll := float64(roller.F32()) // drawn even on a miss to keep the stream aligned
	if float64(hitRoll) > hitChance {
		return OutcomeMiss
	}

	bands := []defenceBand{
		{OutcomeParry, 0.15 * coverage},
		{OutcomeDeflect, 0.30 * coverage},
		{OutcomeBlock, 0.45 * coverage},
		{OutcomeGlance, 0.20},
	}
	acc := 0.0
	for _, b := range bands {
		acc += b.threshold
		if defRoll <= acc {
			return b.outcome
		}
	}
	return OutcomeClean
}

// IsHarmless reports whether an outcome stops all further damage
// processing (everything but glance/clean_hit).
func IsHarmless(o Outcome) bool {
	return o == OutcomeMiss || o == OutcomeParry || o == OutcomeDeflect || o == OutcomeBlock
}
