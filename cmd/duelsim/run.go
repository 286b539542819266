package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/jruiznavarro/wargamestactics/internal/game"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
)

var snapshotOut string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single scripted encounter and print its battle log and final state",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&snapshotOut, "snapshot-out", "", "write the final CombatSnapshot (msgpack) to this file")
}

func runRun(cmd *cobra.Command, args []string) error {
	sc, err := buildScenario(seed, rounds, dataDir)
	if err != nil {
		return fmt.Errorf("build scenario: %w", err)
	}

	fmt.Printf("=== duelsim ===\nSeed: %d | Max rounds: %d | Encounter: %s\n\n", seed, rounds, sc.World.EncounterID)

	log := runToEncounterSummary(sc)

	fmt.Println("+============================================================+")
	fmt.Println("|                       BATTLE LOG                           |")
	fmt.Println("+============================================================+")
	for _, line := range log {
		fmt.Println(line)
	}
	fmt.Println("+============================================================+")
	fmt.Println()

	printFinalState(sc)

	if snapshotOut == "" {
		return nil
	}
	data, err := game.MarshalSnapshot(sc.World.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(snapshotOut, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	fmt.Printf("Snapshot written to %s\n", snapshotOut)
	return nil
}

// printFinalState renders each agent's closing condition as a table and
// a one-line victory/draw summary, matching the teacher's BATTLE LOG +
// VICTORY/DRAW texture (cmd/aossim/main.go) rebuilt with tablewriter.
func printFinalState(sc *Scenario) {
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("AGENT", "BLOOD", "PAIN", "TRAUMA", "WOUNDS", "CONDITIONS")
	for _, id := range sc.World.Order {
		agent := sc.World.Agents()[id]
		conditions := "-"
		if agent.Combat != nil && len(agent.Combat.ActiveConditions) > 0 {
			conditions = fmt.Sprintf("%v", agent.Combat.ActiveConditions)
		}
		table.Append(
			agent.Name,
			fmt.Sprintf("%.1f/%.1f", agent.Blood.Current, agent.Blood.Max),
			fmt.Sprintf("%.2f", agent.Pain.Ratio()),
			fmt.Sprintf("%.2f", agent.Trauma.Ratio()),
			fmt.Sprintf("%d", len(agent.Body.Wounds)),
			conditions,
		)
	}
	table.Render()

	survivors, lastStanding := aliveAgents(sc)
	switch len(survivors) {
	case 1:
		fmt.Printf("\n  VICTORY: %s wins.\n\n", lastStanding)
	case 0:
		fmt.Println("\n  MUTUAL KILL: no combatant is left standing.")
	default:
		fmt.Println("\n  DRAW: no winner after the round limit.")
	}
}

// aliveAgents returns the IDs of every agent with blood remaining and,
// if exactly one survives, that agent's name.
func aliveAgents(sc *Scenario) (alive []core.EntityID, lastStanding string) {
	for _, id := range sc.World.Order {
		agent := sc.World.Agents()[id]
		if agent.Blood.Current > 0 {
			alive = append(alive, id)
			lastStanding = agent.Name
		}
	}
	return alive, lastStanding
}
