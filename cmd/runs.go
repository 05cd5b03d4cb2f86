package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-puzzles/internal/report"
	"github.com/pable/go-cricket-puzzles/internal/storage"
)

// runsCmd lists the history of batch runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the history of build runs",
	Long: `List every recorded build run, newest first, with its seed and how many
sources were accepted or rejected. Re-running build with the same --seed over
the same directory and database reproduces a run.`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs recorded yet. Run 'cricpuzzle build' to start one.")
		return nil
	}
	report.PrintRunList(os.Stdout, runs)
	return nil
}
