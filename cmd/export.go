package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-puzzles/internal/export"
	"github.com/pable/go-cricket-puzzles/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored puzzles and performances to an Excel workbook",
	Long: `Write every stored puzzle and every player performance behind it to an
.xlsx workbook with two sheets, Puzzles and Performances.

Example:
  cricpuzzle export --out puzzles.xlsx`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "puzzles.xlsx", "output workbook path")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	puzzles, err := db.ListPuzzles()
	if err != nil {
		return fmt.Errorf("list puzzles: %w", err)
	}
	stats, err := db.AllPlayerStats()
	if err != nil {
		return fmt.Errorf("list performances: %w", err)
	}
	if err := export.SaveWorkbook(exportOut, puzzles, stats); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %d puzzles and %d performances to %s\n", len(puzzles), len(stats), exportOut)
	return nil
}
