package condition

import (
	"testing"

	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

func testAgent() (*cards.Agent, core.EntityID) {
	plan := template.BodyPlan{Parts: []template.BodyPartPlan{{Tag: "torso", ParentIndex: -1, CanSee: true, CanHear: true}}}
	id := core.EntityID{Index: 1, Generation: 1}
	a := cards.NewAgent(id, "agent", body.NewFromPlan(plan), core.Resource{Current: 5, Max: 5}, core.Resource{Current: 3, Max: 3}, 5.0)
	a.Combat = &cards.CombatState{}
	return a, id
}

func TestIncapacitationHasTopPriority(t *testing.T) {
	a, _ := testAgent()
	a.Pain.Max = 1.0
	a.Pain.Current = 1.0
	tables := template.NewTables()

	yields := Iterate(a, engagement.NewMap(), nil, tables)
	if len(yields) == 0 || yields[0].Condition != template.CondIncapacitated {
		t.Fatalf("expected incapacitated first, got %v", yields)
	}
}

func TestBloodLossBandsEscalate(t *testing.T) {
	a, _ := testAgent()
	a.Blood.Current = 1.0 // ratio 0.2 of max 5.0
	tables := template.NewTables()

	yields := Iterate(a, engagement.NewMap(), nil, tables)
	found := false
	for _, y := range yields {
		if y.Condition == template.CondHypovolemicShock {
			found = true
		}
	}
	if !found {
		t.Errorf("expected hypovolemic_shock at 20%% blood, got %v", yields)
	}
}

func TestDuplicateSuppressionAcrossStoredAndComputed(t *testing.T) {
	a, _ := testAgent()
	a.Combat.ActiveConditions = []template.ConditionTag{template.CondBlinded}
	a.Body.Parts[0].CanSee = true
	a.Body.Parts[0].Missing = true // vision score collapses to 0 via capabilityScore when missing
	tables := template.NewTables()

	yields := Iterate(a, engagement.NewMap(), nil, tables)
	count := 0
	for _, y := range yields {
		if y.Condition == template.CondBlinded {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected blinded to appear exactly once despite stored+computed match, got %d", count)
	}
}

func TestIterateIsIdempotentOnUnchangedState(t *testing.T) {
	a, _ := testAgent()
	a.Blood.Current = 2.0
	tables := template.NewTables()
	eng := engagement.NewMap()

	first := Iterate(a, eng, nil, tables)
	second := Iterate(a, eng, nil, tables)
	if len(first) != len(second) {
		t.Fatalf("expected idempotent iteration, got %d then %d yields", len(first), len(second))
	}
	for i := range first {
		if first[i].Condition != second[i].Condition {
			t.Errorf("yield %d differs across calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestOffBalanceUsesWorstOpponent(t *testing.T) {
	a, id := testAgent()
	oppGood := core.EntityID{Index: 2, Generation: 1}
	oppBad := core.EntityID{Index: 3, Generation: 1}
	eng := engagement.NewMap()
	eng.Set(id, oppGood, engagement.Engagement{BalanceA: 0.9, BalanceB: 0.9})
	eng.Set(id, oppBad, engagement.Engagement{BalanceA: 0.1, BalanceB: 0.1})
	tables := template.NewTables()

	yields := Iterate(a, eng, []core.EntityID{oppGood, oppBad}, tables)
	found := false
	for _, y := range yields {
		if y.Condition == template.CondOffBalance {
			found = true
		}
	}
	if !found {
		t.Errorf("expected off_balance from worst-opponent balance, got %v", yields)
	}
}
