package template

import "github.com/jruiznavarro/wargamestactics/internal/game/event"

// This file defines the rule/predicate/effect grammar: card behaviour is
// data, interpreted by one engine (see internal/game/rules), not a family
// of Go types with their own dispatch logic (spec.md section 9, "Dynamic
// dispatch for behaviours"). Adding a new behaviour means adding a new Kind
// constant and a case in the interpreter's switch, never a new interface.

// TriggerKind identifies the hook point a Rule fires on.
type TriggerKind string

const (
	TriggerOnPlay       TriggerKind = "on_play"
	TriggerOnDraw       TriggerKind = "on_draw"
	TriggerOnTick       TriggerKind = "on_tick"
	TriggerOnCommit     TriggerKind = "on_commit"
	TriggerOnResolve    TriggerKind = "on_resolve"
	TriggerOnEvent      TriggerKind = "on_event"
	TriggerWhileInHand  TriggerKind = "while_in_hand"
	TriggerOnPlayAttempt TriggerKind = "on_play_attempt"
)

// Trigger is the tagged variant over hook points. EventTag is only set when
// Kind == TriggerOnEvent.
type Trigger struct {
	Kind     TriggerKind
	EventTag event.Tag
}

// CompareOp is the comparison operator used by ordinal predicate leaves.
type CompareOp string

const (
	OpLT CompareOp = "<"
	OpLE CompareOp = "<="
	OpEQ CompareOp = "=="
	OpGE CompareOp = ">="
	OpGT CompareOp = ">"
)

// Compare applies op to (a, b).
func (op CompareOp) Compare(a, b float64) bool {
	switch op {
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpEQ:
		return a == b
	case OpGE:
		return a >= b
	case OpGT:
		return a > b
	default:
		return false
	}
}

// Axis identifies one of the four engagement advantage axes.
type Axis string

const (
	AxisPressure  Axis = "pressure"
	AxisControl   Axis = "control"
	AxisPosition  Axis = "position"
	AxisBalance   Axis = "balance"
)

// ConditionTag names a condition, stored or computed.
type ConditionTag string

const (
	CondBlinded           ConditionTag = "blinded"
	CondDeafened          ConditionTag = "deafened"
	CondWinded            ConditionTag = "winded"
	CondIncapacitated     ConditionTag = "incapacitated"
	CondAdrenalineSurge   ConditionTag = "adrenaline_surge"
	CondAdrenalineCrash   ConditionTag = "adrenaline_crash"
	CondHypovolemicShock  ConditionTag = "hypovolemic_shock"
	CondLightBloodLoss    ConditionTag = "light_blood_loss"
	CondModerateBloodLoss ConditionTag = "moderate_blood_loss"
	CondSevereBloodLoss   ConditionTag = "severe_blood_loss"
	CondFlankedPartial    ConditionTag = "flanked_partial"
	CondSurrounded        ConditionTag = "surrounded"
	CondOffBalance        ConditionTag = "off_balance"
	CondPressured         ConditionTag = "pressured"
	CondDominated         ConditionTag = "dominated"
	CondPainFlare         ConditionTag = "pain_flare"
	CondTraumaSpiral      ConditionTag = "trauma_spiral"
)

// ResourceKind identifies a spendable or accumulating agent resource.
type ResourceKind string

const (
	ResourceStamina ResourceKind = "stamina"
	ResourceFocus   ResourceKind = "focus"
	ResourceBlood   ResourceKind = "blood"
	ResourcePain    ResourceKind = "pain"
	ResourceTrauma  ResourceKind = "trauma"
	ResourceMorale  ResourceKind = "morale"
)

// ZoneKind identifies a card zone. Draw/hand/discard/in_play/exhaust are
// per-agent transient zones; environment is encounter-scoped.
type ZoneKind string

const (
	ZoneDraw        ZoneKind = "draw"
	ZoneHand        ZoneKind = "hand"
	ZoneDiscard     ZoneKind = "discard"
	ZoneInPlay      ZoneKind = "in_play"
	ZoneExhaust     ZoneKind = "exhaust"
	ZoneEnvironment ZoneKind = "environment"
)

// EquipFilter narrows a search over an agent's equipped items / inventory.
type EquipFilter struct {
	Category string // weapon/armour category, empty = any
	Tags     Tag    // required tag bits, 0 = any
}

// PredicateKind identifies a predicate leaf or combinator.
type PredicateKind string

const (
	PredAlways              PredicateKind = "always"
	PredHasTag              PredicateKind = "has_tag"
	PredWeaponCategory       PredicateKind = "weapon_category"
	PredWeaponReach          PredicateKind = "weapon_reach"
	PredRange                PredicateKind = "range"
	PredAdvantageThreshold   PredicateKind = "advantage_threshold"
	PredHasCondition         PredicateKind = "has_condition"
	PredHasEquipped          PredicateKind = "has_equipped"
	PredMyPlay               PredicateKind = "my_play"
	PredOpponentPlay         PredicateKind = "opponent_play"
	PredEventCondition       PredicateKind = "event_condition"
	PredCardHasTag           PredicateKind = "card_has_tag"
	PredNot                  PredicateKind = "not"
	PredAll                  PredicateKind = "all"
	PredAny                  PredicateKind = "any"
)

// Predicate is a recursive boolean tree. Only the fields relevant to Kind
// are populated; Children holds the operands of not/all/any (not uses
// exactly Children[0]).
type Predicate struct {
	Kind PredicateKind

	Tag           Tag
	Category      string
	Op            CompareOp
	Reach         Reach
	Axis          Axis
	Threshold     float64
	Condition     ConditionTag
	Filter        EquipFilter
	EventTag      event.Tag
	Inner         *Predicate // for my_play/opponent_play wrapping another predicate
	Children      []Predicate
}

// EffectKind identifies a variant of the Effect sum type.
type EffectKind string

const (
	EffCombatTechnique      EffectKind = "combat_technique"
	EffModifyPlay           EffectKind = "modify_play"
	EffCancelPlay           EffectKind = "cancel_play"
	EffModifyRange          EffectKind = "modify_range"
	EffModifyEngagement     EffectKind = "modify_engagement"
	EffAddCondition         EffectKind = "add_condition"
	EffRemoveCondition      EffectKind = "remove_condition"
	EffResourceDelta        EffectKind = "resource_delta"
	EffMoveCard             EffectKind = "move_card"
	EffExhaustCard          EffectKind = "exhaust_card"
	EffThrowEquipped        EffectKind = "throw_equipped"
	EffEmitEvent            EffectKind = "emit_event"
	EffModifyOverlappingPlay EffectKind = "modify_overlapping_play"
)

// Effect is the tagged union of card behaviours. Only the fields relevant
// to Kind are populated.
type Effect struct {
	Kind EffectKind

	TechniqueID      string
	CostMult         float64
	DamageMult       float64
	ReplaceAdvantage *float64
	Steps            int
	Propagate        bool
	Axis             Axis
	Delta            float64
	Condition        ConditionTag
	Duration         int // ticks; 0 = indefinite/until removed
	Resource         ResourceKind
	ResourceDelta    float64
	ToZone           ZoneKind
	Filter           EquipFilter
	EventTag         event.Tag
}

// TargetQueryKind identifies how a target list is resolved.
type TargetQueryKind string

const (
	TargetSelf            TargetQueryKind = "self"
	TargetSingle          TargetQueryKind = "single"
	TargetAllEnemies      TargetQueryKind = "all_enemies"
	TargetAllInRange      TargetQueryKind = "all_in_range"
	TargetFocal           TargetQueryKind = "focal"
	TargetEventSource     TargetQueryKind = "event_source"
	TargetEquippedItem    TargetQueryKind = "equipped_item"
	TargetMyPlay          TargetQueryKind = "my_play"
	TargetOpponentPlay    TargetQueryKind = "opponent_play"
	TargetEngagement      TargetQueryKind = "engagement"
	TargetFocalEngagement TargetQueryKind = "focal_engagement"
)

// TargetQuery describes how to resolve the candidate list an Expression's
// Effect should apply to.
type TargetQuery struct {
	Kind      TargetQueryKind
	Predicate *Predicate // for single/my_play/opponent_play
	Filter    EquipFilter
}

// Expression is one effect application within a Rule: resolve Target into a
// concrete list, apply Filter per candidate (if set), then run Effect.
type Expression struct {
	Effect Effect
	Target TargetQuery
	Filter *Predicate
}

// Rule is a single piece of card behaviour: fire Expressions when Trigger
// matches and Predicate holds.
type Rule struct {
	Trigger     Trigger
	Predicate   Predicate
	Expressions []Expression
}
