package engagement

import "github.com/jruiznavarro/wargamestactics/internal/game/core"

// FlankStatus classifies how many attackers share favourable position
// against a defender, feeding the defender's flanking penalty (spec.md
// section 4.5, for_defender).
type FlankStatus string

const (
	FlankNone    FlankStatus = "none"
	FlankPartial FlankStatus = "flanked_partial"
	FlankSurrounded FlankStatus = "surrounded"
)

// AssessFlanking classifies a defender's situation against the set of
// opponents engaged with it, based on how many hold positive Position on
// their side of the pairwise engagement.
func AssessFlanking(m *Map, defender core.EntityID, opponents []core.EntityID) FlankStatus {
	favourable := 0
	for _, opp := range opponents {
		e := m.Get(defender, opp)
		if e.Position > 0.2 {
			favourable++
		}
	}
	switch {
	case favourable >= 3:
		return FlankSurrounded
	case favourable >= 2:
		return FlankPartial
	default:
		return FlankNone
	}
}

// ManoeuvreScore computes spec.md section 4.5's positioning-contest
// score: 0.3*speed + 0.4*position + 0.3*balance, multiplied by a
// footwork penalty multiplier (from condition_penalties.footwork_mult).
// Standing still (speed == 0) yields a negative score so it never wins
// a contest against any agent who is moving.
func ManoeuvreScore(speed, position, balance, footworkMult float64) float64 {
	if speed == 0 {
		return -1
	}
	return (0.3*speed + 0.4*position + 0.3*balance) * footworkMult
}

// ResolveManoeuvreConflict picks the winner between two competing range
// changes. On an exact tie, neither applies (stalemate) -- spec.md
// section 4.5.
func ResolveManoeuvreConflict(scoreA, scoreB float64) (aWins, bWins bool) {
	if scoreA == scoreB {
		return false, false
	}
	return scoreA > scoreB, scoreB > scoreA
}
