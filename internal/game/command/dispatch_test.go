package command

import (
	"testing"

	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/phase"
	"github.com/jruiznavarro/wargamestactics/internal/game/rules"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, core.EntityID, core.EntityID) {
	t.Helper()
	plan := template.BodyPlan{Parts: []template.BodyPartPlan{{Tag: "torso", ParentIndex: -1}}}
	actor := core.EntityID{Index: 1, Generation: 1}
	target := core.EntityID{Index: 2, Generation: 1}

	reg := cards.NewRegistry()
	agentA := cards.NewAgent(actor, "attacker", body.NewFromPlan(plan), core.Resource{Current: 5, Max: 5}, core.Resource{Current: 3, Max: 3}, 5.0)
	agentB := cards.NewAgent(target, "defender", body.NewFromPlan(plan), core.Resource{Current: 5, Max: 5}, core.Resource{Current: 3, Max: 3}, 5.0)
	agentA.EnterEncounter(reg, nil)
	agentB.EnterEncounter(reg, nil)

	tables := template.NewTables()
	tables.Cards["card.advance"] = template.CardTemplate{
		ID: "card.advance", PlayableFrom: template.SourceHand,
		Cost: template.Cost{Stamina: 1, Focus: 0, Time: 0.2},
		Tags: template.TagPhaseSelection,
	}

	world := &rules.World{
		Agents:      map[core.EntityID]*cards.Agent{actor: agentA, target: agentB},
		CardReg:     reg,
		Engagements: engagement.NewMap(),
		Tables:      tables,
		Bus:         event.NewBus(),
	}
	fsm := phase.New()
	fsm.Advance() // draw_hand -> player_card_selection

	d := NewDispatcher(world, fsm, rules.NewEngine())
	return d, actor, target
}

func TestPlayCardRejectsWhenNotInHand(t *testing.T) {
	d, actor, _ := newTestDispatcher(t)
	cardID := d.World.CardReg.Create("card.advance", actor, cards.ZoneDiscard)

	_, err := d.Dispatch(actor, Command{Type: TypePlayCard, CardID: cardID})
	cmdErr, ok := err.(Error)
	if !ok || cmdErr.Code != ErrInvalidPlaySource {
		t.Fatalf("expected InvalidPlaySource, got %v", err)
	}
}

func TestPlayCardSucceedsFromHand(t *testing.T) {
	d, actor, _ := newTestDispatcher(t)
	cardID := d.World.CardReg.Create("card.advance", actor, cards.ZoneHand)

	result, err := d.Dispatch(actor, Command{Type: TypePlayCard, CardID: cardID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	if _, zone, ok := d.World.CardReg.Locate(cardID); !ok || zone != cards.ZoneInPlay {
		t.Errorf("expected card moved to in_play, got zone=%v ok=%v", zone, ok)
	}
}

func TestPlayCardRejectsInsufficientStamina(t *testing.T) {
	d, actor, _ := newTestDispatcher(t)
	d.World.Agents[actor].Stamina = core.Resource{Current: 0, Max: 5}
	cardID := d.World.CardReg.Create("card.advance", actor, cards.ZoneHand)

	_, err := d.Dispatch(actor, Command{Type: TypePlayCard, CardID: cardID})
	cmdErr, ok := err.(Error)
	if !ok || cmdErr.Code != ErrInsufficientStamina {
		t.Fatalf("expected InsufficientStamina, got %v", err)
	}
}

func TestCancelCardRefundsReservation(t *testing.T) {
	d, actor, _ := newTestDispatcher(t)
	cardID := d.World.CardReg.Create("card.advance", actor, cards.ZoneHand)
	if _, err := d.Dispatch(actor, Command{Type: TypePlayCard, CardID: cardID}); err != nil {
		t.Fatalf("play_card failed: %v", err)
	}

	before := d.World.Agents[actor].Stamina.Reserved
	if before == 0 {
		t.Fatal("expected stamina to be reserved after play")
	}

	if _, err := d.Dispatch(actor, Command{Type: TypeCancelCard, CardID: cardID}); err != nil {
		t.Fatalf("cancel_card failed: %v", err)
	}
	if d.World.Agents[actor].Stamina.Reserved != 0 {
		t.Errorf("expected reservation released, got %d", d.World.Agents[actor].Stamina.Reserved)
	}
}

func TestEndTurnRequiresSelectionPhase(t *testing.T) {
	d, actor, _ := newTestDispatcher(t)
	d.FSM.Advance() // commit_phase

	_, err := d.Dispatch(actor, Command{Type: TypeEndTurn})
	cmdErr, ok := err.(Error)
	if !ok || cmdErr.Code != ErrWrongPhase {
		t.Fatalf("expected WrongPhase, got %v", err)
	}
}

func TestSetPrimaryTargetUpdatesCombatState(t *testing.T) {
	d, actor, target := newTestDispatcher(t)

	_, err := d.Dispatch(actor, Command{Type: TypeSetPrimaryTarget, Target: &target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.World.Agents[actor].Combat.PrimaryTarget == nil || *d.World.Agents[actor].Combat.PrimaryTarget != target {
		t.Error("expected primary target to be set")
	}
}
