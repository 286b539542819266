package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/jruiznavarro/wargamestactics/internal/simulation"
)

var trials int

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Run the same encounter across a batch of seeds and report aggregate stats",
	Args:  cobra.NoArgs,
	RunE:  runScenario,
}

func init() {
	scenarioCmd.Flags().IntVar(&trials, "trials", 20, "number of seeded trials to run")
}

func runScenario(cmd *cobra.Command, args []string) error {
	if trials <= 0 {
		return fmt.Errorf("--trials must be positive, got %d", trials)
	}

	var stats *simulation.SeriesStats
	for i := 0; i < trials; i++ {
		trialSeed := seed + int64(i)
		sc, err := buildScenario(trialSeed, rounds, dataDir)
		if err != nil {
			return fmt.Errorf("build scenario (trial %d): %w", i, err)
		}
		if stats == nil {
			stats = simulation.NewSeriesStats(sc.AttackerID, "Attacker", sc.DefenderID, "Defender")
		}
		runToEncounterSummary(sc)
		stats.AddResult(trialResult(sc, trialSeed))
	}

	printSeriesTable(stats)
	fmt.Println()
	fmt.Println(stats.Summary())
	return nil
}

func trialResult(sc *Scenario, trialSeed int64) simulation.DuelResult {
	alive, _ := aliveAgents(sc)
	result := simulation.DuelResult{
		Seed:     trialSeed,
		Ticks:    sc.World.BattleRound,
		MaxTicks: rounds,
	}
	if len(alive) == 1 {
		result.Winner = alive[0]
	} else {
		result.Draw = true
	}
	return result
}

func printSeriesTable(stats *simulation.SeriesStats) {
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("TRIAL", "SEED", "RESULT", "TICKS")
	for i, r := range stats.Results {
		result := "draw"
		switch {
		case r.Winner == stats.AgentA:
			result = stats.AgentAName
		case r.Winner == stats.AgentB:
			result = stats.AgentBName
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Seed),
			result,
			fmt.Sprintf("%d", r.Ticks),
		)
	}
	table.Render()
}
