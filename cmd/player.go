package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-puzzles/internal/model"
	"github.com/pable/go-cricket-puzzles/internal/playerkey"
	"github.com/pable/go-cricket-puzzles/internal/report"
	"github.com/pable/go-cricket-puzzles/internal/storage"
)

var (
	playerTop     int
	playerMatches bool
)

// playerCmd is the cobra command for cross-match totals of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player [<key-or-name>...]",
	Short: "Cross-match totals for one or more players",
	Long: `Sum each player's figures across every stored puzzle. Players can be given
by key (VKOHLI) or by name ("V Kohli"); both normalize to the same key.
With no arguments, list the players with the most player-of-the-match awards.`,
	RunE: runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerTop, "top", 10, "number of award winners to list when no player is given")
	playerCmd.Flags().BoolVar(&playerMatches, "matches", false, "also print every stored match of each player")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	return printPlayers(db, args, playerTop, playerMatches)
}

func printPlayers(db *storage.DB, args []string, top int, matches bool) error {
	if len(args) == 0 {
		careers, err := db.TopAwardWinners(top)
		if err != nil {
			return fmt.Errorf("query award winners: %w", err)
		}
		if len(careers) == 0 {
			fmt.Fprintln(os.Stdout, "No puzzles stored yet.")
			return nil
		}
		report.PrintCareerTable(os.Stdout, careers)
		return nil
	}

	keys := make([]model.PlayerKey, 0, len(args))
	for _, arg := range args {
		key := playerkey.Normalize(arg)
		if key == "" {
			return fmt.Errorf("invalid player %q: %w", arg, playerkey.ErrEmptyKey)
		}
		keys = append(keys, key)
	}
	careers, err := db.PlayerCareers(keys)
	if err != nil {
		return fmt.Errorf("query careers: %w", err)
	}
	found := make(map[model.PlayerKey]bool, len(careers))
	for _, c := range careers {
		found[c.Key] = true
	}
	for _, k := range keys {
		if !found[k] {
			fmt.Fprintf(os.Stderr, "No data found for player %s\n", k)
		}
	}
	if len(careers) == 0 {
		return nil
	}

	fmt.Fprintln(os.Stdout)
	report.PrintCareerTable(os.Stdout, careers)
	if !matches {
		return nil
	}
	for _, c := range careers {
		history, err := db.GetPlayerCareer(c.Key)
		if err != nil {
			return fmt.Errorf("query matches for %s: %w", c.Key, err)
		}
		fmt.Fprintf(os.Stdout, "\n--- %s ---\n", c.FullName)
		report.PrintPerformanceTable(os.Stdout, history, "")
	}
	return nil
}
