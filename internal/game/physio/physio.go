// Package physio implements the physiology tick (spec.md section 4.6):
// bleeding drain, pain/trauma accumulation, the adrenaline surge/crash
// lifecycle, table-driven condition injection, and dud-card dispatch.
// Run once per tick at the end of apply_effects. Grounded on the
// teacher's internal/game/rules trigger-dispatch idiom (a resolved
// event feeds straight back into Engine.Fire) generalized from
// AoS4's one-shot ability triggers to a per-tick physiological loop.
package physio

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/condition"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/rules"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// painTraumaBase is the severity-indexed base accumulation spec.md
// section 4.6 step 2 references, before part.trauma_mult and the
// arterial bonus are applied.
var painTraumaBase = map[body.Severity]float64{
	body.SeverityMinor:     0.05,
	body.SeverityInhibited: 0.15,
	body.SeverityDisabled:  0.3,
	body.SeverityBroken:    0.5,
	body.SeverityMissing:   0.8,
}

const arterialTraumaBonus = 0.2
const adrenalineSurgeTicks = 5

// Tick runs one physiology pass for a single agent. newWounds lists the
// wounds inflicted on agent's body this tick (by part/depth index, as
// recorded in body.Body.Wounds) so pain/trauma accumulation only counts
// fresh damage, not the whole wound history.
func Tick(agent *cards.Agent, id core.EntityID, newWounds []body.Wound, eng *engagement.Map, opponents []core.EntityID, tables *template.Tables, bus *event.Bus, engine *rules.Engine, world *rules.World) {
	drainBlood(agent)
	accumulatePainTrauma(agent, newWounds)
	surgeSeverity := worstNewSeverity(agent, newWounds)
	tickAdrenaline(agent, id, surgeSeverity, bus)
	injectConditions(agent, id, eng, opponents, tables, bus, engine, world)

	if agent.Blood.Current <= 0 {
		bus.Emit(event.Event{Tag: event.TagMobDied, Agent: id})
	}
}

func drainBlood(agent *cards.Agent) {
	agent.Blood.Drain(agent.Body.TotalBleedingRate())
}

func accumulatePainTrauma(agent *cards.Agent, newWounds []body.Wound) {
	for _, w := range newWounds {
		if w.PartIndex < 0 || w.PartIndex >= len(agent.Body.Parts) {
			continue
		}
		part := &agent.Body.Parts[w.PartIndex]
		severity := body.Severity(0)
		if w.DepthIndex >= 0 && w.DepthIndex < len(part.Tissue) {
			severity = part.Tissue[w.DepthIndex].Severity
		}
		base := painTraumaBase[severity]
		mult := part.TraumaMult
		if mult <= 0 {
			mult = 1
		}
		amount := base * mult
		if w.ArteryHit {
			amount += arterialTraumaBonus
		}
		agent.Pain.Add(amount)
		agent.Trauma.Add(amount)
	}
}

func worstNewSeverity(agent *cards.Agent, newWounds []body.Wound) body.Severity {
	worst := body.SeverityNone
	for _, w := range newWounds {
		if w.PartIndex < 0 || w.PartIndex >= len(agent.Body.Parts) {
			continue
		}
		part := &agent.Body.Parts[w.PartIndex]
		if w.DepthIndex < 0 || w.DepthIndex >= len(part.Tissue) {
			continue
		}
		if s := part.Tissue[w.DepthIndex].Severity; s > worst {
			worst = s
		}
	}
	return worst
}

// hasStoredCondition reports whether cond is already active, stored-side.
func hasStoredCondition(agent *cards.Agent, cond template.ConditionTag) bool {
	if agent.Combat == nil {
		return false
	}
	for _, c := range agent.Combat.ActiveConditions {
		if c == cond {
			return true
		}
	}
	return false
}

func addStoredCondition(agent *cards.Agent, id core.EntityID, cond template.ConditionTag, ticks int, bus *event.Bus) {
	if agent.Combat == nil || hasStoredCondition(agent, cond) {
		return
	}
	agent.Combat.ActiveConditions = append(agent.Combat.ActiveConditions, cond)
	if agent.Combat.ConditionTimers == nil {
		agent.Combat.ConditionTimers = make(map[template.ConditionTag]int)
	}
	if ticks > 0 {
		agent.Combat.ConditionTimers[cond] = ticks
	}
	bus.Emit(event.Event{Tag: event.TagConditionGained, Agent: id, Message: string(cond)})
}

func removeStoredCondition(agent *cards.Agent, id core.EntityID, cond template.ConditionTag, bus *event.Bus) {
	if agent.Combat == nil {
		return
	}
	kept := agent.Combat.ActiveConditions[:0]
	removed := false
	for _, c := range agent.Combat.ActiveConditions {
		if c == cond {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	agent.Combat.ActiveConditions = kept
	delete(agent.Combat.ConditionTimers, cond)
	if removed {
		bus.Emit(event.Event{Tag: event.TagConditionExpired, Agent: id, Message: string(cond)})
	}
}

// tickAdrenaline advances any running surge timer, transitioning to
// crash on expiry, and opens a fresh surge when a severe-enough wound
// landed this tick and no adrenaline condition is currently active.
func tickAdrenaline(agent *cards.Agent, id core.EntityID, worstNew body.Severity, bus *event.Bus) {
	if agent.Combat == nil {
		return
	}

	if hasStoredCondition(agent, template.CondAdrenalineSurge) {
		remaining := agent.Combat.ConditionTimers[template.CondAdrenalineSurge] - 1
		agent.Combat.ConditionTimers[template.CondAdrenalineSurge] = remaining
		if remaining <= 0 {
			removeStoredCondition(agent, id, template.CondAdrenalineSurge, bus)
			addStoredCondition(agent, id, template.CondAdrenalineCrash, adrenalineSurgeTicks, bus)
		}
		return
	}

	if hasStoredCondition(agent, template.CondAdrenalineCrash) {
		remaining := agent.Combat.ConditionTimers[template.CondAdrenalineCrash] - 1
		agent.Combat.ConditionTimers[template.CondAdrenalineCrash] = remaining
		if remaining <= 0 {
			removeStoredCondition(agent, id, template.CondAdrenalineCrash, bus)
		}
		return
	}

	if worstNew >= body.SeverityInhibited {
		addStoredCondition(agent, id, template.CondAdrenalineSurge, adrenalineSurgeTicks, bus)
	}
}

// injectConditions runs the computed-condition iterator and stores any
// newly-seen condition, dispatching condition_gained events and firing
// on_event rules that may inject dud cards. Pain-derived conditions are
// suppressed while adrenaline_surge is active.
func injectConditions(agent *cards.Agent, id core.EntityID, eng *engagement.Map, opponents []core.EntityID, tables *template.Tables, bus *event.Bus, engine *rules.Engine, world *rules.World) {
	surging := hasStoredCondition(agent, template.CondAdrenalineSurge)

	for _, y := range condition.Iterate(agent, eng, opponents, tables) {
		if surging && (y.Condition == template.CondPainFlare || y.Condition == template.CondIncapacitated) {
			continue
		}
		if hasStoredCondition(agent, y.Condition) {
			continue
		}
		addStoredCondition(agent, id, y.Condition, y.Expiration.Ticks, bus)

		if engine == nil || world == nil {
			continue
		}
		engine.Fire(world, template.TriggerOnEvent, event.TagConditionGained, rules.Context{
			World: world, Actor: id, EventTag: event.TagConditionGained,
		})
	}
}
