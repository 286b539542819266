// Package ai provides fixed-policy command generation for scripted
// agents: a deterministic stand-in for a human driving the command
// boundary during player_card_selection. Grounded on the teacher's
// internal/ai/ai.go AIPlayer, which inspected a read-only GameView and
// returned the first reasonable command per phase ("first unmoved unit
// toward nearest enemy", "first unit in range", and so on) instead of a
// learned policy. This package keeps that "first viable option wins"
// shape, re-pointed at card plays instead of unit orders.
package ai

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/command"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/pkg/dice"
)

// Policy decides the next command for one scripted agent during
// player_card_selection. It never trains or adapts; the same world state
// always yields the same decision modulo the tie-break roller.
type Policy struct {
	Tables  *template.Tables
	CardReg *cards.Registry
	Roller  *dice.Roller
}

// NewPolicy wires a Policy over the shared template tables, card
// registry, and the combat RNG stream used for tie-breaks.
func NewPolicy(tables *template.Tables, cardReg *cards.Registry, roller *dice.Roller) *Policy {
	return &Policy{Tables: tables, CardReg: cardReg, Roller: roller}
}

// Decide picks one command for actor: play an affordable hand card (the
// only one, or one chosen by a tie-break die roll when several are
// affordable), targeted at the agent's primary target if one is set, or
// end_turn if nothing in hand is affordable.
func (p *Policy) Decide(actor core.EntityID, agent *cards.Agent) command.Command {
	hand := p.CardReg.Zone(actor, cards.ZoneHand)
	candidates := make([]core.EntityID, 0, len(hand))
	for _, cardID := range hand {
		if p.affordable(agent, cardID) {
			candidates = append(candidates, cardID)
		}
	}
	if len(candidates) == 0 {
		return command.Command{Type: command.TypeEndTurn}
	}

	pick := candidates[0]
	if len(candidates) > 1 {
		pick = candidates[p.Roller.RollD6()%len(candidates)]
	}

	cmd := command.Command{Type: command.TypePlayCard, CardID: pick}
	if agent.Combat != nil && agent.Combat.PrimaryTarget != nil {
		cmd.Target = agent.Combat.PrimaryTarget
	}
	return cmd
}

// affordable reports whether agent's stamina and focus can cover the
// template's cost right now, leaving aside timeline/channel conflicts
// (Dispatch rejects those independently).
func (p *Policy) affordable(agent *cards.Agent, cardID core.EntityID) bool {
	inst, ok := p.CardReg.Get(cardID)
	if !ok {
		return false
	}
	ct, ok := p.Tables.Cards[inst.TemplateID]
	if !ok {
		return false
	}
	return agent.Stamina.Available() >= ct.Cost.Stamina && agent.Focus.Available() >= ct.Cost.Focus
}
