// Package event implements the engine's semantic event stream: a
// double-buffered, append-only log that external collaborators (frontend,
// log presentation, command translation) drain between ticks. It is the
// structured replacement for the teacher's Game.Log []string idiom --
// see SPEC_FULL.md section 1 (ambient logging).
package event

import (
	"fmt"

	"github.com/jruiznavarro/wargamestactics/internal/game/core"
)

// Tag identifies the kind of event.
type Tag string

const (
	TagWoundInflicted       Tag = "wound_inflicted"
	TagHitMajorArtery       Tag = "hit_major_artery"
	TagBodyPartSevered      Tag = "body_part_severed"
	TagArmourDeflected      Tag = "armour_deflected"
	TagArmourAbsorbed       Tag = "armour_absorbed"
	TagArmourLayerDestroyed Tag = "armour_layer_destroyed"
	TagAttackFoundGap       Tag = "attack_found_gap"
	TagTechniqueResolved    Tag = "technique_resolved"
	TagAdvantageChanged     Tag = "advantage_changed"
	TagCardMoved            Tag = "card_moved"
	TagStaminaDeducted      Tag = "stamina_deducted"
	TagMobDied              Tag = "mob_died"
	TagGameStateTransition  Tag = "game_state_transitioned_to"
	TagCombatEnded          Tag = "combat_ended"
	TagConditionGained      Tag = "condition_gained"
	TagConditionExpired     Tag = "condition_expired"
	TagDiagnostic           Tag = "diagnostic"
)

// Event is a single tagged occurrence. Fields are a superset over all tags;
// only the ones relevant to Tag are populated, matching the rule engine's
// Context convention of "not every field set for every trigger".
type Event struct {
	Tag Tag

	Agent    core.EntityID
	Other    core.EntityID // defender/source/target depending on Tag
	PartTag  string
	Side     string
	Wound    string // wound kind, human-readable
	Axis     string
	Old, New float64
	From, To string // zone names for card_moved
	CardID   core.EntityID
	Outcome  string
	Amount   float64
	Message  string // free-form detail, e.g. diagnostic text
}

func (e Event) String() string {
	switch e.Tag {
	case TagWoundInflicted:
		return fmt.Sprintf("%s: %s wounded on %s (%s)", e.Tag, e.Agent, e.PartTag, e.Wound)
	case TagTechniqueResolved:
		return fmt.Sprintf("%s: %s vs %s -> %s", e.Tag, e.Agent, e.Other, e.Outcome)
	case TagAdvantageChanged:
		return fmt.Sprintf("%s: %s %s %.2f -> %.2f", e.Tag, e.Agent, e.Axis, e.Old, e.New)
	case TagCardMoved:
		return fmt.Sprintf("%s: %s %s -> %s", e.Tag, e.CardID, e.From, e.To)
	case TagConditionGained, TagConditionExpired:
		return fmt.Sprintf("%s: %s %s", e.Tag, e.Agent, e.Message)
	case TagDiagnostic:
		return fmt.Sprintf("%s: %s", e.Tag, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Tag, e.Message)
	}
}

// Bus is a double-buffered event stream. Emit always appends to the
// current buffer; Swap hands the just-completed buffer to the caller (for
// draining) and starts a fresh one, matching SPEC_FULL.md's double-buffer
// discipline (current buffer mutated synchronously, previous buffer
// consumed by external collaborators before the swap to the next tick).
type Bus struct {
	current []Event
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Emit appends an event to the current buffer.
func (b *Bus) Emit(e Event) {
	b.current = append(b.current, e)
}

// Swap returns the current buffer and resets it to empty. Callers should
// drain the returned slice fully; Bus makes no copy.
func (b *Bus) Swap() []Event {
	out := b.current
	b.current = nil
	return out
}

// Peek returns the current buffer without clearing it -- used by the
// CombatSnapshot builder, which needs to read events without consuming
// them before the phase completes.
func (b *Bus) Peek() []Event {
	return b.current
}
