package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-puzzles/internal/report"
	"github.com/pable/go-cricket-puzzles/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the puzzle database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("cricpuzzle shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("cricpuzzle")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		var err error
		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			err = shellList(db)
		case "runs":
			err = shellRuns(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <hash-prefix> [--chart <out.png>]")
				continue
			}
			chartPath := ""
			for i := 1; i+1 < len(args); i++ {
				if args[i] == "--chart" {
					chartPath = args[i+1]
				}
			}
			err = showPuzzle(db, args[0], chartPath)
		case "player":
			err = shellPlayer(db, args)
		case "top":
			n := 10
			if len(args) > 0 {
				if n, err = strconv.Atoi(args[0]); err != nil || n < 1 {
					cError.Fprintln(os.Stderr, "usage: top [n]")
					continue
				}
			}
			err = printPlayers(db, nil, n, false)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored puzzles"},
		{"show <hash-prefix>", "show a puzzle's scorecard and performances"},
		{"show <hash-prefix> --chart <out.png>", "same, also writing a runs chart"},
		{"player <key-or-name> [...]", "cross-match totals, with every match"},
		{"top [n]", "players with the most player-of-the-match awards"},
		{"runs", "build run history"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) error {
	puzzles, err := db.ListPuzzles()
	if err != nil {
		return err
	}
	if len(puzzles) == 0 {
		cMuted.Println("No puzzles stored yet.")
		return nil
	}
	report.PrintPuzzleList(os.Stdout, puzzles)
	return nil
}

func shellRuns(db *storage.DB) error {
	runs, err := db.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cMuted.Println("No runs recorded yet.")
		return nil
	}
	report.PrintRunList(os.Stdout, runs)
	return nil
}

// shellPlayer accepts quoted names so "V Kohli" stays one argument.
func shellPlayer(db *storage.DB, args []string) error {
	names := splitQuoted(strings.Join(args, " "))
	if len(names) == 0 {
		cError.Fprintln(os.Stderr, `usage: player <key-or-"full name"> [...]`)
		return nil
	}
	return printPlayers(db, names, 0, true)
}

func splitQuoted(s string) []string {
	var out []string
	var cur strings.Builder
	quoted := false
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			flush()
		case r == ' ' && !quoted:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
