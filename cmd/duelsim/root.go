package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Persistent flags shared by every subcommand.
var (
	seed    int64
	rounds  int
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "duelsim",
	Short: "Deterministic card-driven duel combat simulator",
	Long: "duelsim drives the tactical duel engine through scripted encounters: " +
		"play one out with a narrated log, run a batch of seeded trials and " +
		"report aggregate stats, or replay a saved snapshot.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "encounter RNG seed")
	rootCmd.PersistentFlags().IntVar(&rounds, "rounds", 12, "maximum battle rounds before an encounter ends in a draw (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "template JSON directory (default: built-in duelist scenario)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(replayCmd)
}
