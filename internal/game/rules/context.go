// Package rules is the rule interpreter: trigger dispatch, predicate
// evaluation, and effect application against live world state. Grounded
// on the teacher's internal/game/rules package (Context/Engine/
// Trigger/Rule), generalized from AoS4's fixed combat-modifier
// accumulator to spec.md's declarative trigger/predicate/effect/target
// grammar defined in internal/game/template/rule_grammar.go.
package rules

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// World is the slice of live state the interpreter needs to resolve
// predicates and targets. The scheduler/world package implements it by
// exposing its own registries; rules never constructs or owns state.
type World struct {
	Agents      map[core.EntityID]*cards.Agent
	CardReg     *cards.Registry
	Engagements *engagement.Map
	Tables      *template.Tables
	Bus         *event.Bus
}

// Context carries everything a rule evaluation needs: who is acting,
// what card triggered it, an optional explicit target, and the world
// view to resolve predicates/targets against. Not every field is
// populated for every trigger.
type Context struct {
	World *World

	Actor    core.EntityID // acting agent
	CardID   core.EntityID // originating card instance
	Target   *core.EntityID
	EventTag event.Tag // set when Trigger.Kind == on_event

	PhaseTag template.Tag // phase_selection or phase_commit, whichever is active
}

// Agent resolves the acting agent, or nil if unknown.
func (c *Context) Agent() *cards.Agent {
	return c.World.Agents[c.Actor]
}

// TargetAgent resolves the explicit target, or nil if none was set.
func (c *Context) TargetAgent() *cards.Agent {
	if c.Target == nil {
		return nil
	}
	return c.World.Agents[*c.Target]
}

// Engagement returns the engagement between the actor and the target,
// or nil if no target is set (predicates reading range/advantage must
// treat a nil engagement as evaluating false, per spec.md section 4.2).
func (c *Context) Engagement() *engagement.Engagement {
	if c.Target == nil {
		return nil
	}
	return c.World.Engagements.Get(c.Actor, *c.Target)
}
