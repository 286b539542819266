package rules

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/internal/game/timeline"
)

// ApplyEffect executes one resolved effect against target. Returns a
// Failure on InvalidTarget (target agent unresolved) or
// InsufficientResources (a resource_delta would violate an invariant);
// both are ordinary values, not panics -- callers decide whether to
// skip the expression or abort the whole rule.
func ApplyEffect(w *World, eff template.Effect, ctx *Context, target core.EntityID) error {
	agent := w.Agents[target]
	if agent == nil {
		return newFailure(FailInvalidTarget, "target agent not found")
	}

	switch eff.Kind {
	case template.EffCombatTechnique:
		// The technique itself is interpreted by the resolution package
		// at tick_resolution from the play's card template; this effect
		// exists so a rule can be written declaratively alongside the
		// card's other expressions, but nothing further runs here.
		return nil

	case template.EffModifyPlay:
		slot := findModifiablePlay(agent, ctx)
		if slot == nil {
			return newFailure(FailInvalidTarget, "no matching play to modify")
		}
		applyPlayMultipliers(slot, eff)
		return nil

	case template.EffModifyOverlappingPlay:
		origin := w.Agents[ctx.Actor]
		if origin == nil {
			return newFailure(FailInvalidTarget, "originating agent not found")
		}
		originSlot := findModifiablePlay(origin, ctx)
		if originSlot == nil {
			return newFailure(FailInvalidTarget, "no originating play to overlap against")
		}
		applied := false
		if agent.Combat != nil && agent.Combat.Timeline != nil {
			for _, idx := range agent.Combat.Timeline.OrderedIndices() {
				slot := agent.Combat.Timeline.At(idx)
				if timeline.Overlaps(originSlot, slot) {
					applyPlayMultipliers(slot, eff)
					applied = true
				}
			}
		}
		if !applied {
			return newFailure(FailInvalidTarget, "no overlapping play found")
		}
		return nil

	case template.EffCancelPlay:
		slot := findModifiablePlay(agent, ctx)
		if slot == nil {
			return newFailure(FailInvalidTarget, "no matching play to cancel")
		}
		slot.Play.Cancelled = true
		return nil

	case template.EffModifyRange:
		e := w.Engagements.Get(ctx.Actor, target)
		e.ModifyRange(eff.Steps)
		w.Bus.Emit(event.Event{Tag: event.TagAdvantageChanged, Agent: target, Axis: "range"})
		return nil

	case template.EffModifyEngagement:
		e := w.Engagements.Get(ctx.Actor, target)
		before := e.AxisValue(eff.Axis)
		e.ModifyAxis(eff.Axis, eff.Delta)
		w.Bus.Emit(event.Event{Tag: event.TagAdvantageChanged, Agent: target, Axis: string(eff.Axis), Old: before, New: e.AxisValue(eff.Axis)})
		return nil

	case template.EffAddCondition:
		if agent.Combat == nil {
			return newFailure(FailInvalidTarget, "agent has no combat state")
		}
		addCondition(agent, eff.Condition)
		w.Bus.Emit(event.Event{Tag: event.TagConditionGained, Agent: target})
		return nil

	case template.EffRemoveCondition:
		if agent.Combat == nil {
			return nil
		}
		removeCondition(agent, eff.Condition)
		w.Bus.Emit(event.Event{Tag: event.TagConditionExpired, Agent: target})
		return nil

	case template.EffResourceDelta:
		return applyResourceDelta(w, agent, eff)

	case template.EffMoveCard:
		if err := w.CardReg.Move(ctx.CardID, target, cards.Zone(eff.ToZone)); err != nil {
			return newFailure(FailInvalidTarget, err.Error())
		}
		w.Bus.Emit(event.Event{Tag: event.TagCardMoved, CardID: ctx.CardID, To: string(eff.ToZone)})
		return nil

	case template.EffExhaustCard:
		if err := w.CardReg.Move(ctx.CardID, target, cards.ZoneExhaust); err != nil {
			return newFailure(FailInvalidTarget, err.Error())
		}
		w.Bus.Emit(event.Event{Tag: event.TagCardMoved, CardID: ctx.CardID, To: string(cards.ZoneExhaust)})
		return nil

	case template.EffThrowEquipped:
		idx := -1
		for i, itemID := range agent.Inventory {
			if eff.Filter.Category != "" {
				w2, ok := w.Tables.Weapons[itemID]
				if !ok || w2.Category != eff.Filter.Category {
					continue
				}
			}
			idx = i
			break
		}
		if idx < 0 {
			return newFailure(FailInvalidTarget, "no equipped item matches filter")
		}
		itemID := agent.Inventory[idx]
		agent.Inventory = append(agent.Inventory[:idx], agent.Inventory[idx+1:]...)
		instID := w.CardReg.Create(itemID, target, cards.ZoneInPlay)
		if err := w.CardReg.MoveToEnvironment(instID, target); err != nil {
			return newFailure(FailInvalidTarget, err.Error())
		}
		w.Bus.Emit(event.Event{Tag: event.TagCardMoved, CardID: instID, To: "environment"})
		return nil

	case template.EffEmitEvent:
		w.Bus.Emit(event.Event{Tag: eff.EventTag, Agent: target})
		return nil

	default:
		return nil
	}
}

// findModifiablePlay locates the play an EffModifyPlay/EffCancelPlay
// expression should touch within agent's timeline: first, the play
// matching the originating card itself (my_play -- a card adjusting its
// own cost or a reinforcement modifying the lead play it stacked onto);
// failing that, the play aimed at ctx.Actor (opponent_play -- a parry
// discounting the very attack it is answering).
func findModifiablePlay(agent *cards.Agent, ctx *Context) *timeline.TimeSlot {
	if agent.Combat == nil || agent.Combat.Timeline == nil {
		return nil
	}
	for _, idx := range agent.Combat.Timeline.OrderedIndices() {
		slot := agent.Combat.Timeline.At(idx)
		if slot.Play.Action == ctx.CardID {
			return slot
		}
	}
	for _, idx := range agent.Combat.Timeline.OrderedIndices() {
		slot := agent.Combat.Timeline.At(idx)
		if slot.Play.Target != nil && *slot.Play.Target == ctx.Actor {
			return slot
		}
	}
	return nil
}

// applyPlayMultipliers folds eff's cost/damage multipliers onto slot,
// compounding with whatever is already set (a play may be modified by
// more than one rule in a tick).
func applyPlayMultipliers(slot *timeline.TimeSlot, eff template.Effect) {
	if eff.CostMult != 0 {
		slot.Play.CostMult = slot.Play.EffectiveCostMult() * eff.CostMult
	}
	if eff.DamageMult != 0 {
		slot.Play.DamageMult = slot.Play.EffectiveDamageMult() * eff.DamageMult
	}
}

func addCondition(agent *cards.Agent, cond template.ConditionTag) {
	for _, c := range agent.Combat.ActiveConditions {
		if c == cond {
			return
		}
	}
	agent.Combat.ActiveConditions = append(agent.Combat.ActiveConditions, cond)
}

func removeCondition(agent *cards.Agent, cond template.ConditionTag) {
	out := agent.Combat.ActiveConditions[:0]
	for _, c := range agent.Combat.ActiveConditions {
		if c != cond {
			out = append(out, c)
		}
	}
	agent.Combat.ActiveConditions = out
}

func applyResourceDelta(w *World, agent *cards.Agent, eff template.Effect) error {
	delta := eff.ResourceDelta
	switch eff.Resource {
	case template.ResourceStamina:
		return spendOrRefund(&agent.Stamina, delta)
	case template.ResourceFocus:
		return spendOrRefund(&agent.Focus, delta)
	case template.ResourceBlood:
		agent.Blood.Add(delta)
	case template.ResourcePain:
		agent.Pain.Add(delta)
	case template.ResourceTrauma:
		agent.Trauma.Add(delta)
	case template.ResourceMorale:
		agent.Morale.Add(delta)
	}
	return nil
}

func spendOrRefund(r *core.Resource, delta float64) error {
	if delta < 0 {
		if !r.Spend(int(-delta)) {
			return newFailure(FailInsufficientResources, "resource_delta would drive current below 0")
		}
		return nil
	}
	r.Refund(int(delta))
	return nil
}
