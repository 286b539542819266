// Package simulation aggregates outcomes across repeated duel encounters
// run under different seeds, so a scenario can be judged by win rate and
// typical duration rather than a single trial. Adapted from the teacher's
// GameResult/MatchupStats (army victory points across battle rounds) to
// the duel engine's terms: one winning agent or a draw, elapsed ticks
// instead of battle rounds, and blood remaining instead of victory points.
package simulation

import (
	"fmt"
	"time"

	"github.com/jruiznavarro/wargamestactics/internal/game/core"
)

// DuelResult holds the outcome of a single simulated encounter.
type DuelResult struct {
	Seed      int64
	Winner    core.EntityID // zero value when Draw is true
	Draw      bool
	Ticks     int
	MaxTicks  int
	Duration  time.Duration
	BloodLeft map[core.EntityID]float64 // final blood per agent
}

// SeriesStats holds aggregated results for a series of encounters fought
// between the same two named agents under different seeds.
type SeriesStats struct {
	AgentA, AgentB         core.EntityID
	AgentAName, AgentBName string

	TotalGames int
	AWins      int
	BWins      int
	Draws      int

	TotalTicks int
	MaxTicks   int
	MinTicks   int

	Results []DuelResult
}

// NewSeriesStats creates an empty aggregate for two named agents.
func NewSeriesStats(agentA core.EntityID, nameA string, agentB core.EntityID, nameB string) *SeriesStats {
	return &SeriesStats{
		AgentA: agentA, AgentAName: nameA,
		AgentB: agentB, AgentBName: nameB,
		MinTicks: 1<<31 - 1,
	}
}

// AddResult folds one trial's outcome into the running aggregate.
func (s *SeriesStats) AddResult(r DuelResult) {
	s.TotalGames++
	s.Results = append(s.Results, r)

	switch {
	case r.Draw:
		s.Draws++
	case r.Winner == s.AgentA:
		s.AWins++
	case r.Winner == s.AgentB:
		s.BWins++
	}

	s.TotalTicks += r.Ticks
	if r.Ticks > s.MaxTicks {
		s.MaxTicks = r.Ticks
	}
	if r.Ticks < s.MinTicks {
		s.MinTicks = r.Ticks
	}
}

// WinRate returns agent's fraction of wins over all games played so far.
func (s *SeriesStats) WinRate(agent core.EntityID) float64 {
	if s.TotalGames == 0 {
		return 0
	}
	switch agent {
	case s.AgentA:
		return float64(s.AWins) / float64(s.TotalGames)
	case s.AgentB:
		return float64(s.BWins) / float64(s.TotalGames)
	default:
		return 0
	}
}

// DrawRate returns the fraction of games that ended in a draw.
func (s *SeriesStats) DrawRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.TotalGames)
}

// AvgTicks returns the mean number of ticks a game lasted.
func (s *SeriesStats) AvgTicks() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.TotalTicks) / float64(s.TotalGames)
}

// Summary returns a human-readable report of the series, in the teacher's
// MatchupStats.Summary format.
func (s *SeriesStats) Summary() string {
	if s.TotalGames == 0 {
		return "No games played"
	}
	return fmt.Sprintf(
		`=== Series: %s vs %s ===
Games: %d
%s wins: %d (%.1f%%)
%s wins: %d (%.1f%%)
Draws: %d (%.1f%%)

Duration: avg %.1f ticks (min %d, max %d)`,
		s.AgentAName, s.AgentBName,
		s.TotalGames,
		s.AgentAName, s.AWins, s.WinRate(s.AgentA)*100,
		s.AgentBName, s.BWins, s.WinRate(s.AgentB)*100,
		s.Draws, s.DrawRate()*100,
		s.AvgTicks(), s.MinTicks, s.MaxTicks,
	)
}
