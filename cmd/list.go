package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-puzzles/internal/report"
	"github.com/pable/go-cricket-puzzles/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored puzzles",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	puzzles, err := db.ListPuzzles()
	if err != nil {
		return fmt.Errorf("list puzzles: %w", err)
	}
	if len(puzzles) == 0 {
		fmt.Fprintln(os.Stdout, "No puzzles stored yet. Run 'cricpuzzle build' to create some.")
		return nil
	}
	report.PrintPuzzleList(os.Stdout, puzzles)
	return nil
}
