package cmd

import (
	"fmt"
	"log/slog"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-puzzles/internal/aggregator"
	"github.com/pable/go-cricket-puzzles/internal/parser"
	"github.com/pable/go-cricket-puzzles/internal/puzzle"
	"github.com/pable/go-cricket-puzzles/internal/report"
)

var (
	convertJSON bool
	convertSeed uint64
)

var convertCmd = &cobra.Command{
	Use:   "convert <match.json>",
	Short: "Convert one match file into a puzzle and print it",
	Long: `Convert a single cricsheet match file (.json, .json.gz or .json.zst) and
print the puzzle, team scores, innings totals and player performances.
Nothing is written to the stores.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "print the puzzle as JSON")
	convertCmd.Flags().Uint64Var(&convertSeed, "seed", 0, "fix the trivia choice; 0 picks at random")
}

func runConvert(cmd *cobra.Command, args []string) error {
	match, err := parser.LoadMatch(args[0])
	if err != nil {
		return err
	}

	var choose puzzle.Chooser
	if convertSeed != 0 {
		choose = puzzle.SeededChooser(convertSeed)
	}
	p, res, err := puzzle.NewAssembler(choose).Convert(match)
	if res != nil {
		for _, w := range res.Warnings {
			slog.Warn("roster warning", "file", match.SourcePath, "err", w)
		}
	}
	if err != nil {
		return fmt.Errorf("convert %s: %w", match.SourcePath, err)
	}
	if err := puzzle.Check(p); err != nil {
		return fmt.Errorf("convert %s: %w", match.SourcePath, err)
	}

	if convertJSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(p)
	}

	sc := p.MatchData.Scorecard
	report.PrintPuzzle(os.Stdout, p)
	report.PrintTeamScoreTable(os.Stdout, sc.Teams, sc.TeamScores)
	report.PrintInningsTable(os.Stdout, aggregator.InningsScores(match.Innings))
	report.PrintPerformanceTable(os.Stdout, report.SortedPerformances(p.MatchData.PlayerPerformances), p.TargetPlayer)
	return nil
}
