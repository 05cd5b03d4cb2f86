package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-puzzles/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the puzzle database",
	Long: `Run an arbitrary SQL query against the puzzle database and print results as a table.

Schema overview:
  runs(id, started_at, seed, sample_size, files_scanned, converted, accepted,
    structural_errors, target_missing, validation_failures, load_failures,
    already_ingested, players_added)
  sources(hash, path, run_id, status, reason)
  puzzles(source_hash, source_path, run_id, puzzle_id, target_player, team1, team2,
    venue, match_date, season, winner, player_of_match, puzzle_json)
  player_stats(source_hash, player_key, full_name, team, runs, wickets,
    balls_faced, balls_bowled, fours, sixes)

Example: cricpuzzle sql "SELECT status, COUNT(*) FROM sources GROUP BY status"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

