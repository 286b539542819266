package resolution

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/pkg/dice"
)

// TechniqueResult is the final record of one offensive technique's
// resolution, returned to the caller (the apply_effects tick stage) for
// bookkeeping and logging.
type TechniqueResult struct {
	Attacker, Defender core.EntityID
	Outcome            Outcome
}

// ResolveTechnique runs the full attacker/defender pipeline for one
// offensive technique: build modifiers, compute hit chance, roll the
// outcome, and on a hit that gets through defence apply damage. Mirrors
// the teacher's ResolveAttacks staging (hit -> wound -> save -> damage)
// collapsed to the single-attacker/single-defender shape this engine
// uses. The outcome roll always consumes both of its draws; the
// hit-location and armour draws happen only when damage is applied.
func ResolveTechnique(
	roller *dice.Roller,
	tables *template.Tables,
	engagements *engagement.Map,
	bus *event.Bus,
	attackerID, defenderID core.EntityID,
	attacker, defender *cards.Agent,
	opponents []core.EntityID,
	ctx AttackContext,
) TechniqueResult {
	flank := engagement.AssessFlanking(engagements, defenderID, opponents)
	isPrimaryDefence := true
	if defender.Combat != nil && defender.Combat.PrimaryTarget != nil {
		isPrimaryDefence = *defender.Combat.PrimaryTarget == attackerID
	}

	attackerMods := ForAttacker(ctx, tables)
	defenderMods := ForDefender(ctx, tables, flank, isPrimaryDefence)

	hitChance := HitChance(ctx.Technique, ctx.Weapon, attackerMods, defenderMods)

	coverage := defenderCoverage(defender, ctx.Technique.GuardHeight, tables)
	outcome := RollOutcome(roller, hitChance, coverage, ctx.Technique.GuardHeight)

	bus.Emit(event.Event{
		Tag:     event.TagTechniqueResolved,
		Agent:   attackerID,
		Other:   defenderID,
		Outcome: string(outcome),
	})

	if IsHarmless(outcome) {
		return TechniqueResult{Attacker: attackerID, Defender: defenderID, Outcome: outcome}
	}

	applied := ApplyDamage(
		roller,
		bus,
		defenderID,
		defender.Body,
		defender.Loadout,
		tables.Armour,
		ctx.Technique,
		ctx.Weapon,
		attackerMods.DamageMult,
		tables.BleedFactors,
		flank != engagement.FlankNone,
	)

	return TechniqueResult{Attacker: attackerID, Defender: defenderID, Outcome: applied}
}

// defenderCoverage feeds the active-defence roll bands with the
// defender's body mobility score (averaged across standing parts). The
// guard height and the defender's armour are not consulted.
func defenderCoverage(defender *cards.Agent, guard template.GuardHeight, tables *template.Tables) float64 {
	return defender.Body.MobilityScore()
}
