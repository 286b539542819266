package resolution

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/pkg/dice"
)

// woundKindForMode maps a technique's attack mode to the body wound kind
// it produces. Swings slash, thrusts pierce; anything else bludgeons
// (grapples, strikes with the flat, improvised tools).
func woundKindForMode(mode template.AttackMode) body.WoundKind {
	switch mode {
	case template.AttackSwing:
		return body.WoundSlash
	case template.AttackThrust:
		return body.WoundPierce
	default:
		return body.WoundBludgeon
	}
}

// RollHitLocation picks a body part index weighted by HitWeight (see
// partWeights: guard height and flanking leave the relative odds
// unchanged). Returns -1 if every part is missing.
func RollHitLocation(roller *dice.Roller, b *body.Body, guard template.GuardHeight, flanked bool) int {
	return roller.WeightedIndex(partWeights(b, guard, flanked))
}

// TraverseResult is the outcome of running a blow through one part's
// armour loadout, from the outside in.
type TraverseResult struct {
	Deflected        bool
	LayerIndex       int // index of the layer the blow stopped at or slipped through a gap in, or len(Layers) if it passed every layer
	FoundGap         bool
	LayerDestroyed   bool
	ResidualDamage   float64
}

// TraverseArmour walks a part's worn armour outside-in. Each layer either
// deflects the blow outright (roll under DeflectThreshold), absorbs part
// of the damage and is marked destroyed if damage exceeds its capacity,
// or is bypassed entirely via a coverage-gap roll. A bare part (no worn
// armour) always reaches tissue with full damage.
func TraverseArmour(roller *dice.Roller, worn *body.WornArmour, armourDef *template.Armour, damage float64) TraverseResult {
	if worn == nil || armourDef == nil {
		return TraverseResult{ResidualDamage: damage, LayerIndex: 0}
	}

	destroyed := false
	for i, layer := range armourDef.Layers {
		if i >= len(worn.LayerState) {
			break
		}
		if worn.LayerState[i].Destroyed {
			continue
		}

		gapRoll := roller.F32()
		if float64(gapRoll) < layer.CoverageGapChance {
			return TraverseResult{FoundGap: true, LayerIndex: i, LayerDestroyed: destroyed, ResidualDamage: damage}
		}

		deflectRoll := roller.F32()
		if float64(deflectRoll) < layer.DeflectThreshold {
			return TraverseResult{Deflected: true, LayerIndex: i}
		}

		damage -= layer.Absorb
		if damage <= 0 {
			return TraverseResult{LayerIndex: i, LayerDestroyed: destroyed, ResidualDamage: 0}
		}
		worn.LayerState[i].Destroyed = true
		destroyed = true
	}

	return TraverseResult{LayerIndex: len(armourDef.Layers), LayerDestroyed: destroyed, ResidualDamage: damage}
}

// depthForDamage converts residual damage into a tissue depth index: more
// damage punches deeper into the part's layer stack.
func depthForDamage(part *body.Part, damage float64) int {
	if len(part.Tissue) == 0 {
		return 0
	}
	idx := int(damage)
	if idx >= len(part.Tissue) {
		idx = len(part.Tissue) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// ApplyDamage resolves a successful, unharmless outcome into a wound on
// the defender's body: rolling hit location, traversing armour, and
// inflicting tissue damage. It emits the relevant events onto bus and
// returns the outcome actually applied: glance/clean_hit when a wound is
// inflicted, deflect if a layer deflected it, block if armour absorbed
// all of the damage, or miss if every part is missing.
func ApplyDamage(
	roller *dice.Roller,
	bus *event.Bus,
	defenderID core.EntityID,
	b *body.Body,
	loadout *body.Loadout,
	armourTable map[string]template.Armour,
	technique template.Technique,
	weapon *template.Weapon,
	damageMult float64,
	bleedFactors template.BleedFactors,
	flanked bool,
) Outcome {
	partIdx := RollHitLocation(roller, b, technique.GuardHeight, flanked)
	if partIdx < 0 {
		return OutcomeMiss
	}
	part := &b.Parts[partIdx]

	baseDamage := 1.0
	if weapon != nil {
		baseDamage = weapon.Damage
	}
	damage := baseDamage * damageMult

	worn := loadout.At(part.Tag)
	var armourDef *template.Armour
	if worn != nil {
		if def, ok := armourTable[worn.ArmourID]; ok {
			armourDef = &def
		}
	}

	result := TraverseArmour(roller, worn, armourDef, damage)

	if result.Deflected {
		bus.Emit(event.Event{Tag: event.TagArmourDeflected, Agent: defenderID, PartTag: part.Tag})
		return OutcomeDeflect
	}
	if result.LayerDestroyed {
		bus.Emit(event.Event{Tag: event.TagArmourLayerDestroyed, Agent: defenderID, PartTag: part.Tag})
	}
	if result.FoundGap {
		bus.Emit(event.Event{Tag: event.TagAttackFoundGap, Agent: defenderID, PartTag: part.Tag})
	}
	if result.ResidualDamage <= 0 {
		return OutcomeBlock
	}

	kind := woundKindForMode(technique.AttackMode)
	depth := depthForDamage(part, result.ResidualDamage)
	wound, severity := b.InflictWound(bleedFactors, partIdx, depth, kind)

	bus.Emit(event.Event{
		Tag:     event.TagWoundInflicted,
		Agent:   defenderID,
		PartTag: part.Tag,
		Wound:   string(kind),
		Outcome: severity.String(),
		Amount:  wound.BleedingRate,
	})
	if wound.ArteryHit {
		bus.Emit(event.Event{Tag: event.TagHitMajorArtery, Agent: defenderID, PartTag: part.Tag})
	}
	if severity == body.SeverityMissing {
		b.Sever(partIdx)
		bus.Emit(event.Event{Tag: event.TagBodyPartSevered, Agent: defenderID, PartTag: part.Tag})
	}

	if result.ResidualDamage >= float64(len(part.Tissue)) {
		return OutcomeClean
	}
	return OutcomeGlance
}
