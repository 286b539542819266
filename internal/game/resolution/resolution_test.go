package resolution

import (
	"testing"

	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/pkg/dice"
)

func twoPartPlan() template.BodyPlan {
	return template.BodyPlan{Parts: []template.BodyPartPlan{
		{Tag: "torso", ParentIndex: -1, CanStand: true, Tissue: []template.TissueKind{template.TissueSkin, template.TissueMuscle}, HitWeight: 5, HasArtery: true},
		{Tag: "head", ParentIndex: 0, Tissue: []template.TissueKind{template.TissueSkin, template.TissueBone}, HitWeight: 1},
	}}
}

func newDuel(t *testing.T) (attacker, defender *cards.Agent, attackerID, defenderID core.EntityID, tables *template.Tables) {
	t.Helper()
	plan := twoPartPlan()
	attackerID = core.EntityID{Index: 1, Generation: 1}
	defenderID = core.EntityID{Index: 2, Generation: 1}

	attacker = cards.NewAgent(attackerID, "attacker", body.NewFromPlan(plan), core.Resource{Current: 5, Max: 5}, core.Resource{Current: 3, Max: 3}, 5.0)
	defender = cards.NewAgent(defenderID, "defender", body.NewFromPlan(plan), core.Resource{Current: 5, Max: 5}, core.Resource{Current: 3, Max: 3}, 5.0)
	attacker.Combat = &cards.CombatState{}
	defender.Combat = &cards.CombatState{}
	defender.Combat.PrimaryTarget = &attackerID

	tables = template.NewTables()
	tables.BleedFactors = template.DefaultBleedFactors()
	return
}

// TestResolveTechniqueCleanHitOnBareTorso runs a high-accuracy thrust
// against an unarmoured defender with a favourable RNG stream and
// expects a wound to land on the tracked body.
func TestResolveTechniqueCleanHitOnBareTorso(t *testing.T) {
	attacker, defender, attackerID, defenderID, tables := newDuel(t)
	bus := event.NewBus()
	engagements := engagement.NewMap()

	technique := template.Technique{
		ID: "tech.thrust", AttackMode: template.AttackThrust,
		GuardHeight: template.GuardMid, Accuracy: 1.0,
	}
	weapon := &template.Weapon{ID: "weapon.sword", Accuracy: 1.0, Damage: 3}

	ctx := AttackContext{
		Attacker: attacker, Defender: defender,
		Technique: technique, Weapon: weapon,
	}

	roller := dice.NewRoller(1)
	var result TechniqueResult
	for seed := int64(1); seed < 50; seed++ {
		roller = dice.NewRoller(seed)
		result = ResolveTechnique(roller, tables, engagements, bus, attackerID, defenderID, attacker, defender, nil, ctx)
		if result.Outcome == OutcomeGlance || result.Outcome == OutcomeClean {
			break
		}
	}

	if result.Outcome != OutcomeGlance && result.Outcome != OutcomeClean {
		t.Fatalf("expected at least one seed in range to land a wound, got %v", result.Outcome)
	}
	if len(defender.Body.Wounds) != 1 {
		t.Fatalf("expected exactly one wound recorded, got %d", len(defender.Body.Wounds))
	}
}

// TestResolveTechniqueArmourDeflectsWithCertainty exercises the armour
// traversal path: a DeflectThreshold of 1.0 must stop every blow before
// it reaches tissue.
func TestResolveTechniqueArmourDeflectsWithCertainty(t *testing.T) {
	attacker, defender, attackerID, defenderID, tables := newDuel(t)
	bus := event.NewBus()
	engagements := engagement.NewMap()

	armourDef := template.Armour{
		ID: "armour.plate", Covers: []string{"torso"},
		Layers: []template.ArmourLayer{{DeflectThreshold: 1.0, Absorb: 0, CoverageGapChance: 0}},
	}
	tables.Armour["armour.plate"] = armourDef
	defender.Loadout.Equip(armourDef)

	technique := template.Technique{ID: "tech.swing", AttackMode: template.AttackSwing, GuardHeight: template.GuardMid, Accuracy: 1.0}
	weapon := &template.Weapon{ID: "weapon.sword", Accuracy: 1.0, Damage: 5}

	ctx := AttackContext{Attacker: attacker, Defender: defender, Technique: technique, Weapon: weapon}

	for seed := int64(1); seed < 30; seed++ {
		roller := dice.NewRoller(seed)
		ResolveTechnique(roller, tables, engagements, bus, attackerID, defenderID, attacker, defender, nil, ctx)
	}

	if len(defender.Body.Wounds) != 0 {
		t.Fatalf("expected plate deflection to prevent all wounds, got %d", len(defender.Body.Wounds))
	}
}

func TestHitChanceClampsToBounds(t *testing.T) {
	lowTech := template.Technique{Accuracy: 0.0}
	highTech := template.Technique{Accuracy: 10.0}
	neutral := neutralModifiers()

	if got := HitChance(lowTech, nil, neutral, neutral); got != 0.05 {
		t.Errorf("expected floor of 0.05, got %f", got)
	}
	if got := HitChance(highTech, nil, neutral, neutral); got != 0.95 {
		t.Errorf("expected ceiling of 0.95, got %f", got)
	}
}

func TestForAttackerAppliesGraspPenaltyWhenHandMissing(t *testing.T) {
	attacker, defender, _, _, tables := newDuel(t)
	attacker.DominantSide = "right"
	attacker.Body.Parts = append(attacker.Body.Parts, body.Part{Tag: "right_hand", Side: "right", ParentIndex: 0, CanGrasp: true, Missing: true})

	ctx := AttackContext{Attacker: attacker, Defender: defender, Technique: template.Technique{}}
	m := ForAttacker(ctx, tables)

	if m.HitChanceMult != 0.75 {
		t.Errorf("expected 0.75 hit-chance mult with missing dominant hand, got %f", m.HitChanceMult)
	}
	if m.DamageMult != 0.5 {
		t.Errorf("expected 0.5 damage mult with missing dominant hand, got %f", m.DamageMult)
	}
}

func TestForDefenderAppliesAttentionPenaltyWhenNotPrimary(t *testing.T) {
	_, defender, _, _, tables := newDuel(t)
	ctx := AttackContext{Defender: defender}

	primary := ForDefender(ctx, tables, engagement.FlankNone, true)
	secondary := ForDefender(ctx, tables, engagement.FlankNone, false)

	if secondary.DefenseMult >= primary.DefenseMult {
		t.Errorf("expected attention penalty to reduce defense mult: primary=%f secondary=%f", primary.DefenseMult, secondary.DefenseMult)
	}
}

func TestRollOutcomeMissBelowHitChance(t *testing.T) {
	roller := dice.NewRoller(9)
	outcome := RollOutcome(roller, 0.0, 1.0, template.GuardMid)
	if outcome != OutcomeMiss {
		t.Errorf("expected guaranteed miss at hitChance 0, got %v", outcome)
	}
}
