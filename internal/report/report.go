package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-cricket-puzzles/internal/model"
)

var (
	cOK    = color.New(color.FgGreen, color.Bold)
	cWarn  = color.New(color.FgYellow)
	cError = color.New(color.FgRed, color.Bold)
	cMuted = color.New(color.Faint)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// PrintPuzzleSummary prints a one-line summary header for a stored puzzle.
func PrintPuzzleSummary(w io.Writer, s model.PuzzleSummary) {
	fmt.Fprintf(w, "\n#%d  %s vs %s  |  %s (%s)  |  %s  |  Winner: %s  |  POTM: %s  |  Hash: %s\n\n",
		s.PuzzleID, s.Team1, s.Team2, s.MatchDate, s.Season, s.Venue, s.Winner, s.PlayerOfMatch, short(s.SourceHash))
}

// PrintPuzzle prints the puzzle text exactly as players see it, then the trivia.
func PrintPuzzle(w io.Writer, p *model.Puzzle) {
	fmt.Fprintf(w, "\n%s\n\n", p.PuzzleContent)
	cMuted.Fprintf(w, "Trivia: %s\n", p.Trivia)
	cMuted.Fprintf(w, "Answer: %s (%s)\n\n", p.MatchData.Scorecard.PlayerOfMatch, p.TargetPlayer)
}

// SortedPerformances flattens a performance map, top run scorers first and
// then by wickets.
func SortedPerformances(stats map[model.PlayerKey]model.PlayerStat) []model.StoredPlayerStat {
	out := make([]model.StoredPlayerStat, 0, len(stats))
	for k, s := range stats {
		out = append(out, model.StoredPlayerStat{Key: k, PlayerStat: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RunsInMatch != out[j].RunsInMatch {
			return out[i].RunsInMatch > out[j].RunsInMatch
		}
		if out[i].WicketsInMatch != out[j].WicketsInMatch {
			return out[i].WicketsInMatch > out[j].WicketsInMatch
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// PrintPerformanceTable prints per-player figures for one match. The target
// player's row is marked with ">".
func PrintPerformanceTable(w io.Writer, stats []model.StoredPlayerStat, target model.PlayerKey) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "TEAM", "R", "B", "SR", "4s", "6s", "O", "W")

	for _, s := range stats {
		marker := " "
		if target != "" && s.Key == target {
			marker = ">"
		}
		sr, overs := "-", "-"
		if s.BallsFaced > 0 {
			sr = fmt.Sprintf("%.1f", s.StrikeRate())
		}
		if s.BallsBowled > 0 {
			overs = fmt.Sprintf("%.1f", s.Overs())
		}
		table.Append(
			marker,
			s.FullName,
			s.Team,
			strconv.Itoa(s.RunsInMatch),
			strconv.Itoa(s.BallsFaced),
			sr,
			strconv.Itoa(s.Boundaries.Fours),
			strconv.Itoa(s.Boundaries.Sixes),
			overs,
			strconv.Itoa(s.WicketsInMatch),
		)
	}
	table.Render()
}

// PrintTeamScoreTable prints one row per team in display order.
func PrintTeamScoreTable(w io.Writer, teams []string, scores map[string]model.TeamScore) {
	table := newTable(w)
	table.Header("TEAM", "RUNS", "WKTS", "SCORE")
	for _, team := range teams {
		s := scores[team]
		table.Append(team, strconv.Itoa(s.Runs), strconv.Itoa(s.Wickets), fmt.Sprintf("%d/%d", s.Runs, s.Wickets))
	}
	table.Render()
}

// PrintInningsTable prints every innings in order, including a side's
// second innings in multi-innings matches.
func PrintInningsTable(w io.Writer, innings []model.InningsScore) {
	table := newTable(w)
	table.Header("#", "BATTING", "RUNS", "WKTS", "BALLS", "OVERS", "RPO")
	for _, s := range innings {
		rpo := "-"
		if s.Balls > 0 {
			rpo = fmt.Sprintf("%.2f", float64(s.Runs)/float64(s.Balls)*6)
		}
		table.Append(
			strconv.Itoa(s.Number),
			s.Team,
			strconv.Itoa(s.Runs),
			strconv.Itoa(s.Wickets),
			strconv.Itoa(s.Balls),
			fmt.Sprintf("%d.%d", s.Balls/6, s.Balls%6),
			rpo,
		)
	}
	table.Render()
}

// PrintPuzzleList prints every stored puzzle.
func PrintPuzzleList(w io.Writer, puzzles []model.PuzzleSummary) {
	table := newTable(w)
	table.Header("ID", "HASH", "DATE", "SEASON", "MATCH", "WINNER", "POTM")
	for _, p := range puzzles {
		table.Append(
			strconv.Itoa(p.PuzzleID),
			short(p.SourceHash),
			p.MatchDate,
			p.Season,
			p.Team1+" vs "+p.Team2,
			p.Winner,
			p.PlayerOfMatch,
		)
	}
	table.Render()
}

// PrintCareerTable prints cross-match totals, one row per player.
func PrintCareerTable(w io.Writer, careers []model.PlayerCareer) {
	table := newTable(w)
	table.Header("PLAYER", "KEY", "M", "RUNS", "R/M", "SR", "4s", "6s", "WKTS", "POTM")
	for _, c := range careers {
		sr := "-"
		if c.BallsFaced > 0 {
			sr = fmt.Sprintf("%.1f", c.StrikeRate())
		}
		table.Append(
			c.FullName,
			string(c.Key),
			strconv.Itoa(c.Matches),
			strconv.Itoa(c.Runs),
			fmt.Sprintf("%.1f", c.RunsPerMatch()),
			sr,
			strconv.Itoa(c.Fours),
			strconv.Itoa(c.Sixes),
			strconv.Itoa(c.Wickets),
			strconv.Itoa(c.PlayerOfMatchAwards),
		)
	}
	table.Render()
}

// PrintRunReport prints the outcome of a batch run followed by every
// rejected source.
func PrintRunReport(w io.Writer, r model.RunSummary, failures []model.SourceRecord) {
	fmt.Fprintf(w, "\nRun %s  |  seed %d  |  %d files scanned  |  %d sampled\n\n",
		r.ID, r.Seed, r.FilesScanned, r.SampleSize)

	cOK.Fprintf(w, "  accepted            %d\n", r.Accepted)
	line := func(label string, n int) {
		c := cMuted
		if n > 0 {
			c = cWarn
		}
		c.Fprintf(w, "  %-19s %d\n", label, n)
	}
	line("already ingested", r.AlreadyIngested)
	line("structural errors", r.StructuralErrors)
	line("target not found", r.TargetMissing)
	line("failed validation", r.ValidationFailures)
	line("unreadable files", r.LoadFailures)
	fmt.Fprintf(w, "  %-19s %d\n", "players added", r.PlayersAdded)

	if len(failures) == 0 {
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w)
	table := newTable(w)
	table.Header("FILE", "STATUS", "REASON")
	for _, f := range failures {
		table.Append(f.Path, string(f.Status), f.Reason)
	}
	table.Render()
	if r.Accepted == 0 {
		cError.Fprintln(w, "no puzzles were accepted in this run")
	}
}

// PrintRunList prints the batch run history.
func PrintRunList(w io.Writer, runs []model.RunSummary) {
	table := newTable(w)
	table.Header("RUN", "STARTED", "SEED", "FILES", "ACCEPTED", "REJECTED", "PLAYERS+")
	for _, r := range runs {
		rejected := r.StructuralErrors + r.TargetMissing + r.ValidationFailures + r.LoadFailures
		table.Append(
			short(r.ID),
			r.StartedAt,
			strconv.FormatUint(r.Seed, 10),
			strconv.Itoa(r.FilesScanned),
			strconv.Itoa(r.Accepted),
			strconv.Itoa(rejected),
			strconv.Itoa(r.PlayersAdded),
		)
	}
	table.Render()
}
