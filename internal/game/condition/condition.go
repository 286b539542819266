// Package condition implements the computed-condition iterator
// (spec.md section 4.7): it merges stored explicit conditions with
// conditions derived live from engagement, body, and physiology state,
// yielding in a fixed priority order with duplicate suppression.
// Grounded on the teacher's internal/game/rules predicate evaluation
// style (small, independent checks folded into one ordered pass) rather
// than any single teacher iterator, since AoS4 has no analogous
// continuously-recomputed status-effect pass.
package condition

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// Expiration describes when a yielded condition lapses.
type Expiration struct {
	Dynamic bool // true: lasts only while the computed trigger holds
	Ticks   int  // valid when !Dynamic; 0 = indefinite/until explicitly removed
}

// Yield is one condition the iterator produced this pass.
type Yield struct {
	Condition  template.ConditionTag
	Expiration Expiration
}

const (
	balanceThreshold  = 0.3 // below this, off_balance
	pressureThreshold = 0.6
	controlThreshold  = 0.6
	sensoryThreshold  = 0.3
	bloodBandHeavy    = 0.4
	bloodBandModerate = 0.6
	bloodBandLight    = 0.8
)

// Iterate yields computed + stored conditions for agent in the fixed
// priority order spec.md section 4.7 defines. opponents lists every
// agent currently engaged with agent, used for the engagement-derived
// steps. The result is stable across repeated calls on unchanged world
// state: nothing here mutates agent or eng.
func Iterate(agent *cards.Agent, eng *engagement.Map, opponents []core.EntityID, tables *template.Tables) []Yield {
	seen := make(map[template.ConditionTag]bool)
	var out []Yield

	emit := func(cond template.ConditionTag, exp Expiration) {
		if seen[cond] {
			return
		}
		seen[cond] = true
		out = append(out, Yield{Condition: cond, Expiration: exp})
	}

	// 1. Incapacitation.
	if agent.Pain.Ratio() >= 0.95 || agent.Trauma.Ratio() >= 0.95 {
		emit(template.CondIncapacitated, Expiration{Dynamic: true})
	}

	// 2. Stored explicit conditions.
	if agent.Combat != nil {
		for _, c := range agent.Combat.ActiveConditions {
			emit(c, Expiration{Ticks: 0})
		}
	}

	// 3. Computed balance, worst opponent first.
	worstBalance := 1.0
	for _, opp := range opponents {
		b := eng.BalanceFor(agent.ID, opp)
		if b < worstBalance {
			worstBalance = b
		}
	}
	if len(opponents) > 0 && worstBalance < balanceThreshold {
		emit(template.CondOffBalance, Expiration{Dynamic: true})
	}

	// 4. Blood-loss band.
	bloodRatio := agent.Blood.Ratio()
	switch {
	case bloodRatio < bloodBandHeavy:
		emit(template.CondHypovolemicShock, Expiration{Dynamic: true})
	case bloodRatio < bloodBandModerate:
		emit(template.CondSevereBloodLoss, Expiration{Dynamic: true})
	case bloodRatio < bloodBandLight:
		emit(template.CondModerateBloodLoss, Expiration{Dynamic: true})
	case bloodRatio < 1.0:
		emit(template.CondLightBloodLoss, Expiration{Dynamic: true})
	}

	// 5. Sensory.
	if agent.Body.VisionScore() < sensoryThreshold {
		emit(template.CondBlinded, Expiration{Dynamic: true})
	}
	if agent.Body.HearingScore() < sensoryThreshold {
		emit(template.CondDeafened, Expiration{Dynamic: true})
	}

	// 6. Engagement pressure/control thresholds, worst opponent first.
	worstPressure, worstControl := 1.0, 1.0
	for _, opp := range opponents {
		e := eng.Get(agent.ID, opp)
		if e.Pressure < worstPressure {
			worstPressure = e.Pressure
		}
		if e.Control < worstControl {
			worstControl = e.Control
		}
	}
	if len(opponents) > 0 && worstPressure < -pressureThreshold {
		emit(template.CondPressured, Expiration{Dynamic: true})
	}
	if len(opponents) > 0 && worstControl < -controlThreshold {
		emit(template.CondDominated, Expiration{Dynamic: true})
	}

	// 7. Resource-threshold conditions, worst-first per resource.
	emitResourceThreshold(emit, tables, template.ResourcePain, agent.Pain.Ratio())
	emitResourceThreshold(emit, tables, template.ResourceTrauma, agent.Trauma.Ratio())

	return out
}

func emitResourceThreshold(emit func(template.ConditionTag, Expiration), tables *template.Tables, resource template.ResourceKind, ratio float64) {
	if tables == nil {
		return
	}
	for _, row := range tables.ResourceThresholds[resource] {
		if ratio >= row.MinRatio {
			emit(row.Condition, Expiration{Dynamic: true})
			return
		}
	}
}
