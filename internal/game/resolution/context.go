// Package resolution is the resolution engine: attack/defence contexts,
// modifier aggregation, outcome selection, and damage application.
// Grounded on the teacher's internal/game/combat.go ResolveAttacks
// staged pipeline (hit -> wound -> save -> damage, each a small function,
// modifiers clamped and always consuming RNG), generalized from AoS4's
// bucket-of-dice model to spec.md section 4.5's single attacker/defender
// technique resolution against a layered body.
package resolution

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/internal/game/timeline"
)

// AttackContext bundles everything one offensive-technique resolution
// needs.
type AttackContext struct {
	Attacker *cards.Agent
	Defender *cards.Agent
	Engagement *engagement.Engagement

	Technique template.Technique
	Weapon    *template.Weapon
	Stakes    timeline.Stakes // effective stakes: worst of play.stakes and modifier overrides

	// OverlayBonus is the sum of overlay_bonus across any of the
	// attacker's footwork slots overlapping this play in time, computed
	// by the caller (resolvePlay has the attacker's full Timeline; this
	// package does not).
	OverlayBonus float64

	DefenderSlot *timeline.TimeSlot // best-matching overlapping defensive slot, nil if none
}

// CombatModifiers is the accumulated multiplier/additive state built by
// for_attacker/for_defender before outcome selection.
type CombatModifiers struct {
	HitChanceMult float64
	DamageMult    float64
	DefenseMult   float64
	DodgeMod      float64
	FootworkMult  float64
}

// neutralModifiers is the identity element plays start from.
func neutralModifiers() CombatModifiers {
	return CombatModifiers{HitChanceMult: 1, DamageMult: 1, DefenseMult: 1, DodgeMod: 0, FootworkMult: 1}
}

func (m *CombatModifiers) apply(p template.ConditionPenalty) {
	m.HitChanceMult *= p.HitChanceMult
	m.DamageMult *= p.DamageMult
	m.DefenseMult *= p.DefenseMult
	m.DodgeMod += p.DodgeMod
	m.FootworkMult *= p.FootworkMult
}

// ForAttacker builds the attacker-side modifier set: condition penalties,
// blinded attack-mode-specific penalty, winded-at-committed-or-worse,
// and weapon-hand grasp-strength wound modifiers.
func ForAttacker(ctx AttackContext, tables *template.Tables) CombatModifiers {
	m := neutralModifiers()

	for _, cond := range ctx.Attacker.Combat.ActiveConditions {
		if p, ok := tables.ConditionPenalties[cond]; ok {
			m.apply(p)
		}
	}

	if hasCondition(ctx.Attacker, template.CondBlinded) {
		if ctx.Technique.AttackMode == template.AttackThrust {
			m.HitChanceMult *= 0.5
		} else {
			m.HitChanceMult *= 0.75
		}
	}

	if hasCondition(ctx.Attacker, template.CondWinded) && stakesAtLeastCommitted(ctx.Stakes) {
		m.HitChanceMult *= 0.8
	}

	grasp := ctx.Attacker.Body.GraspStrength(ctx.Attacker.DominantSide)
	m.HitChanceMult *= 1 - 0.25*(1-grasp)
	m.DamageMult *= 0.5 + 0.5*grasp

	m.DamageMult *= 1 + ctx.OverlayBonus

	return m
}

// ForDefender builds the defender-side modifier set: condition
// penalties, mobility-based dodge, flanking, deafness, and the
// attention penalty for a non-primary defence.
func ForDefender(ctx AttackContext, tables *template.Tables, flank engagement.FlankStatus, isPrimaryDefence bool) CombatModifiers {
	m := neutralModifiers()

	for _, cond := range ctx.Defender.Combat.ActiveConditions {
		if p, ok := tables.ConditionPenalties[cond]; ok {
			m.apply(p)
		}
	}

	mobility := ctx.Defender.Body.MobilityScore()
	m.DodgeMod += -0.3 * (1 - mobility)

	switch flank {
	case engagement.FlankPartial:
		m.DefenseMult *= 0.8
	case engagement.FlankSurrounded:
		m.DefenseMult *= 0.6
	}

	if hasCondition(ctx.Defender, template.CondDeafened) {
		m.DefenseMult *= 0.9
	}

	if !isPrimaryDefence {
		m.DefenseMult *= 0.75
	}

	return m
}

func hasCondition(a *cards.Agent, cond template.ConditionTag) bool {
	if a.Combat == nil {
		return false
	}
	for _, c := range a.Combat.ActiveConditions {
		if c == cond {
			return true
		}
	}
	return false
}

func stakesAtLeastCommitted(s timeline.Stakes) bool {
	return s == timeline.StakesCommitted || s == timeline.StakesReckless
}

// clamp bounds v to the range [lo,hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HitChance computes base technique accuracy x weapon accuracy x the
// modifier product, clamped to [0.05, 0.95] (spec.md section 4.5).
func HitChance(technique template.Technique, weapon *template.Weapon, attackerMods, defenderMods CombatModifiers) float64 {
	weaponAcc := 1.0
	if weapon != nil {
		weaponAcc = weapon.Accuracy
	}
	chance := technique.Accuracy * weaponAcc * attackerMods.HitChanceMult * defenderMods.DefenseMult
	return clamp(chance, 0.05, 0.95)
}

// partWeights builds the hit-location roll's per-part weights: each
// part's HitWeight (1 if unset), 0 for missing parts. The guard height is
// not consulted, and flanking multiplies every non-missing part's weight
// by the same 1.2, so neither changes the relative odds between parts.
func partWeights(b *body.Body, guard template.GuardHeight, flanked bool) []float64 {
	weights := make([]float64, len(b.Parts))
	for i, p := range b.Parts {
		if p.Missing {
			weights[i] = 0
			continue
		}
		w := p.HitWeight
		if w <= 0 {
			w = 1
		}
		weights[i] = w
		if flanked {
			weights[i] *= 1.2
		}
	}
	return weights
}

// EntityPair is a small convenience alias used when events need the
// attacker/defender IDs rather than the full Agent.
type EntityPair struct {
	Attacker, Defender core.EntityID
}
