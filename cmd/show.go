package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-puzzles/internal/report"
	"github.com/pable/go-cricket-puzzles/internal/storage"
)

var showChart string

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show a stored puzzle by source hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showChart, "chart", "", "also write a runs-per-player PNG chart to this path")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	return showPuzzle(db, args[0], showChart)
}

// showPuzzle prints everything stored for the puzzle whose source hash starts
// with prefix.
func showPuzzle(db *storage.DB, prefix, chartPath string) error {
	summary, err := db.GetPuzzleByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query puzzle: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No puzzle found with hash prefix %q\n", prefix)
		return nil
	}
	p, err := db.GetPuzzle(summary.SourceHash)
	if err != nil {
		return fmt.Errorf("load puzzle: %w", err)
	}
	stats, err := db.GetPlayerStats(summary.SourceHash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	report.PrintPuzzleSummary(os.Stdout, *summary)
	if p != nil {
		sc := p.MatchData.Scorecard
		report.PrintPuzzle(os.Stdout, p)
		report.PrintTeamScoreTable(os.Stdout, sc.Teams, sc.TeamScores)
	}
	report.PrintPerformanceTable(os.Stdout, stats, summary.TargetPlayer)

	if chartPath == "" {
		return nil
	}
	png, err := report.RenderRunsChart(stats, summary.TargetPlayer)
	if err != nil {
		return err
	}
	if err := os.WriteFile(chartPath, png, 0644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nChart written to %s\n", chartPath)
	return nil
}
