package rules

import (
	"testing"

	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

func newTestWorld(t *testing.T) (*World, core.EntityID, core.EntityID) {
	t.Helper()
	plan := template.BodyPlan{Parts: []template.BodyPartPlan{{Tag: "torso", ParentIndex: -1}}}

	actor := core.EntityID{Index: 1, Generation: 1}
	target := core.EntityID{Index: 2, Generation: 1}

	reg := cards.NewRegistry()
	agentA := cards.NewAgent(actor, "attacker", body.NewFromPlan(plan), core.Resource{Current: 5, Max: 5}, core.Resource{Current: 3, Max: 3}, 5.0)
	agentB := cards.NewAgent(target, "defender", body.NewFromPlan(plan), core.Resource{Current: 5, Max: 5}, core.Resource{Current: 3, Max: 3}, 5.0)
	agentA.Combat = &cards.CombatState{Registry: reg}
	agentB.Combat = &cards.CombatState{Registry: reg}

	tables := template.NewTables()
	tables.Cards["card.advance"] = template.CardTemplate{
		ID: "card.advance",
		Rules: []template.Rule{{
			Trigger:   template.Trigger{Kind: template.TriggerOnPlay},
			Predicate: template.Predicate{Kind: template.PredAlways},
			Expressions: []template.Expression{{
				Effect: template.Effect{Kind: template.EffModifyEngagement, Axis: template.AxisPressure, Delta: 0.3},
				Target: template.TargetQuery{Kind: template.TargetFocal},
			}},
		}},
	}
	reg.Create("card.advance", actor, cards.ZoneInPlay)
	agentA.Combat.PrimaryTarget = &target

	w := &World{
		Agents:      map[core.EntityID]*cards.Agent{actor: agentA, target: agentB},
		CardReg:     reg,
		Engagements: engagement.NewMap(),
		Tables:      tables,
		Bus:         event.NewBus(),
	}
	return w, actor, target
}

func TestFireAppliesMatchingRule(t *testing.T) {
	w, actor, target := newTestWorld(t)
	e := NewEngine()

	failures := e.Fire(w, template.TriggerOnPlay, "", Context{})
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}

	got := w.Engagements.Get(actor, target).Pressure
	if got != 0.3 {
		t.Errorf("expected pressure 0.3 after firing, got %f", got)
	}
}

func TestFireSkipsNonMatchingTrigger(t *testing.T) {
	w, actor, target := newTestWorld(t)
	e := NewEngine()

	e.Fire(w, template.TriggerOnDraw, "", Context{})

	if got := w.Engagements.Get(actor, target).Pressure; got != 0 {
		t.Errorf("expected no change firing an unrelated trigger, got %f", got)
	}
}

func TestEvalPredicateAlwaysTrue(t *testing.T) {
	ctx := &Context{}
	if !EvalPredicate(template.Predicate{Kind: template.PredAlways}, ctx) {
		t.Error("expected always predicate to be true")
	}
}

func TestEvalPredicateRangeFalseWithoutTarget(t *testing.T) {
	ctx := &Context{}
	p := template.Predicate{Kind: template.PredRange, Op: template.OpLE, Reach: template.ReachMedium}
	if EvalPredicate(p, ctx) {
		t.Error("expected range predicate to evaluate false with no target set")
	}
}

func TestEvalPredicateNotInvertsChild(t *testing.T) {
	ctx := &Context{}
	p := template.Predicate{Kind: template.PredNot, Children: []template.Predicate{{Kind: template.PredAlways}}}
	if EvalPredicate(p, ctx) {
		t.Error("expected not(always) to be false")
	}
}

func TestResolveTargetsSelf(t *testing.T) {
	w, actor, _ := newTestWorld(t)
	ctx := &Context{World: w, Actor: actor}
	out := ResolveTargets(template.TargetQuery{Kind: template.TargetSelf}, ctx)
	if len(out) != 1 || out[0] != actor {
		t.Errorf("expected self target to resolve to the actor, got %v", out)
	}
}

func TestApplyEffectResourceDeltaInsufficientFails(t *testing.T) {
	w, actor, _ := newTestWorld(t)
	agent := w.Agents[actor]
	agent.Stamina.Current = 1

	ctx := &Context{World: w, Actor: actor}
	err := ApplyEffect(w, template.Effect{Kind: template.EffResourceDelta, Resource: template.ResourceStamina, ResourceDelta: -5}, ctx, actor)
	if err == nil {
		t.Fatal("expected insufficient resources failure")
	}
	f, ok := err.(Failure)
	if !ok || f.Kind != FailInsufficientResources {
		t.Errorf("expected FailInsufficientResources, got %v", err)
	}
}
