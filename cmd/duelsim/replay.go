package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/jruiznavarro/wargamestactics/internal/game"
)

var replayCmd = &cobra.Command{
	Use:   "replay <snapshot-file>",
	Short: "Pretty-print a CombatSnapshot previously written by 'run --snapshot-out'",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := game.UnmarshalSnapshot(data)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	fmt.Printf("Encounter %s | Phase: %s | Battle round: %d\n\n", snap.EncounterID, snap.Phase, snap.BattleRound)

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("AGENT", "STAMINA", "FOCUS", "BLOOD", "HAND", "PLAYS", "ENEMIES")
	for _, a := range snap.Agents {
		table.Append(
			a.ID.String(),
			fmt.Sprintf("%d/%d", a.Resources.Stamina.Current, a.Resources.Stamina.Max),
			fmt.Sprintf("%d/%d", a.Resources.Focus.Current, a.Resources.Focus.Max),
			fmt.Sprintf("%.1f/%.1f", a.Resources.Blood.Current, a.Resources.Blood.Max),
			fmt.Sprintf("%d", len(a.Hand)),
			fmt.Sprintf("%d", len(a.Plays)),
			fmt.Sprintf("%d", len(a.Enemies)),
		)
	}
	table.Render()
	return nil
}
