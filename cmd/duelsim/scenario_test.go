package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/phase"
)

func TestBuildScenarioWiresTwoOpposedScriptedAgents(t *testing.T) {
	sc, err := buildScenario(1, 5, "")
	require.NoError(t, err)

	require.Len(t, sc.World.Order, 2)
	attacker := sc.World.Agents()[sc.AttackerID]
	defender := sc.World.Agents()[sc.DefenderID]
	require.NotNil(t, attacker.Combat.PrimaryTarget)
	require.Equal(t, sc.DefenderID, *attacker.Combat.PrimaryTarget)
	require.NotNil(t, defender.Combat.PrimaryTarget)
	require.Equal(t, sc.AttackerID, *defender.Combat.PrimaryTarget)
}

func TestReplenishHandTopsUpToHandTarget(t *testing.T) {
	sc, err := buildScenario(1, 5, "")
	require.NoError(t, err)

	replenishHand(sc.World, sc.AttackerID, sc.Deck)
	require.Len(t, sc.World.CardReg().Zone(sc.AttackerID, cards.ZoneHand), handTarget)

	replenishHand(sc.World, sc.AttackerID, sc.Deck)
	require.Len(t, sc.World.CardReg().Zone(sc.AttackerID, cards.ZoneHand), handTarget, "already-full hand is left alone")
}

func TestRunToEncounterSummaryEndsTheEncounter(t *testing.T) {
	sc, err := buildScenario(1, 3, "")
	require.NoError(t, err)

	runToEncounterSummary(sc)
	require.Equal(t, phase.StateEncounterSummary, sc.World.FSM.Current)
}
