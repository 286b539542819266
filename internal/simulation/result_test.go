package simulation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jruiznavarro/wargamestactics/internal/game/core"
)

func TestSeriesStatsAggregatesWinsDrawsAndTicks(t *testing.T) {
	a := core.EntityID{Index: 1, Generation: 1}
	b := core.EntityID{Index: 2, Generation: 1}
	s := NewSeriesStats(a, "attacker", b, "defender")

	s.AddResult(DuelResult{Seed: 1, Winner: a, Ticks: 4})
	s.AddResult(DuelResult{Seed: 2, Winner: b, Ticks: 6})
	s.AddResult(DuelResult{Seed: 3, Draw: true, Ticks: 12})

	require.Equal(t, 3, s.TotalGames)
	require.Equal(t, 1, s.AWins)
	require.Equal(t, 1, s.BWins)
	require.Equal(t, 1, s.Draws)
	require.InDelta(t, 1.0/3.0, s.WinRate(a), 1e-9)
	require.InDelta(t, 1.0/3.0, s.DrawRate(), 1e-9)
	require.InDelta(t, (4.0+6.0+12.0)/3.0, s.AvgTicks(), 1e-9)
	require.Equal(t, 4, s.MinTicks)
	require.Equal(t, 12, s.MaxTicks)
}

func TestSeriesStatsWinRateForUnknownAgentIsZero(t *testing.T) {
	a := core.EntityID{Index: 1, Generation: 1}
	b := core.EntityID{Index: 2, Generation: 1}
	stranger := core.EntityID{Index: 9, Generation: 1}
	s := NewSeriesStats(a, "attacker", b, "defender")
	s.AddResult(DuelResult{Winner: a, Ticks: 1})

	require.Zero(t, s.WinRate(stranger))
}

func TestSeriesStatsSummaryBeforeAnyGamesIsPlaceholder(t *testing.T) {
	s := NewSeriesStats(core.EntityID{}, "a", core.EntityID{}, "b")
	require.Equal(t, "No games played", s.Summary())
}
