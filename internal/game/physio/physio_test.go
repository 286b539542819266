package physio

import (
	"math"
	"testing"

	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

func testAgent(t *testing.T) (*cards.Agent, core.EntityID) {
	t.Helper()
	plan := template.BodyPlan{Parts: []template.BodyPartPlan{
		{Tag: "torso", ParentIndex: -1, HasArtery: true, TraumaMult: 1.0, Tissue: []template.TissueKind{template.TissueSkin, template.TissueMuscle}},
	}}
	id := core.EntityID{Index: 1, Generation: 1}
	a := cards.NewAgent(id, "agent", body.NewFromPlan(plan), core.Resource{Current: 5, Max: 5}, core.Resource{Current: 3, Max: 3}, 5.0)
	a.Combat = &cards.CombatState{ConditionTimers: make(map[template.ConditionTag]int)}
	return a, id
}

func TestDrainBloodSumsBleedingRates(t *testing.T) {
	a, id := testAgent(t)
	tables := template.NewTables()
	bus := event.NewBus()

	_, _ = a.Body.InflictWound(tables.BleedFactors, 0, 1, body.WoundSlash)
	expectedRate := a.Body.TotalBleedingRate()
	before := a.Blood.Current

	Tick(a, id, nil, engagement.NewMap(), nil, tables, bus, nil, nil)

	if got := before - a.Blood.Current; math.Abs(got-expectedRate) > 1e-9 {
		t.Errorf("expected blood to drain by %f, drained %f", expectedRate, got)
	}
}

func TestAdrenalineSurgeTriggersOnInhibitedWound(t *testing.T) {
	a, id := testAgent(t)
	tables := template.NewTables()
	bus := event.NewBus()

	a.Body.ApplySeverityStep(0, 1)
	a.Body.ApplySeverityStep(0, 1) // now inhibited
	wound := body.Wound{PartIndex: 0, DepthIndex: 1}

	Tick(a, id, []body.Wound{wound}, engagement.NewMap(), nil, tables, bus, nil, nil)

	found := false
	for _, c := range a.Combat.ActiveConditions {
		if c == template.CondAdrenalineSurge {
			found = true
		}
	}
	if !found {
		t.Errorf("expected adrenaline_surge after an inhibited-severity wound, got %v", a.Combat.ActiveConditions)
	}
}

func TestAdrenalineSurgeExpiresIntoCrash(t *testing.T) {
	a, id := testAgent(t)
	tables := template.NewTables()
	bus := event.NewBus()
	a.Combat.ActiveConditions = []template.ConditionTag{template.CondAdrenalineSurge}
	a.Combat.ConditionTimers[template.CondAdrenalineSurge] = 1

	Tick(a, id, nil, engagement.NewMap(), nil, tables, bus, nil, nil)

	if hasStoredCondition(a, template.CondAdrenalineSurge) {
		t.Error("expected surge to expire")
	}
	if !hasStoredCondition(a, template.CondAdrenalineCrash) {
		t.Error("expected crash to begin after surge expiry")
	}
}

func TestMobDiedEmittedAtZeroBlood(t *testing.T) {
	a, id := testAgent(t)
	tables := template.NewTables()
	bus := event.NewBus()
	a.Blood.Current = 0

	Tick(a, id, nil, engagement.NewMap(), nil, tables, bus, nil, nil)

	found := false
	for _, e := range bus.Peek() {
		if e.Tag == event.TagMobDied {
			found = true
		}
	}
	if !found {
		t.Error("expected mob_died event at zero blood")
	}
}

func TestInjectConditionsStoresBloodLossBand(t *testing.T) {
	a, id := testAgent(t)
	tables := template.NewTables()
	bus := event.NewBus()
	a.Blood.Current = 1.0 // ratio 0.2, below the heaviest band

	Tick(a, id, nil, engagement.NewMap(), nil, tables, bus, nil, nil)

	if !hasStoredCondition(a, template.CondHypovolemicShock) {
		t.Errorf("expected hypovolemic_shock to be stored, got %v", a.Combat.ActiveConditions)
	}
}
