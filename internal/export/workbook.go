// Package export writes stored puzzles and performances to an Excel workbook
// for offline review.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-cricket-puzzles/internal/model"
)

const (
	SheetPuzzles      = "Puzzles"
	SheetPerformances = "Performances"
)

var (
	puzzleHeader = []any{
		"ID", "Source", "Date", "Season", "Team 1", "Team 2", "Venue",
		"Winner", "Player of the Match", "Target Key", "Run",
	}
	performanceHeader = []any{
		"Source", "Date", "Key", "Player", "Team", "Runs", "Balls",
		"SR", "4s", "6s", "Wickets", "Overs",
	}
)

// WriteWorkbook writes a two-sheet workbook to w.
func WriteWorkbook(w io.Writer, puzzles []model.PuzzleSummary, stats []model.StoredPlayerStat) error {
	f, err := build(puzzles, stats)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path.
func SaveWorkbook(path string, puzzles []model.PuzzleSummary, stats []model.StoredPlayerStat) error {
	f, err := build(puzzles, stats)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func build(puzzles []model.PuzzleSummary, stats []model.StoredPlayerStat) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetPuzzles); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetPerformances); err != nil {
		f.Close()
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	rows := make([][]any, 0, len(puzzles)+1)
	rows = append(rows, puzzleHeader)
	for _, p := range puzzles {
		rows = append(rows, []any{
			p.PuzzleID, shortHash(p.SourceHash), p.MatchDate, p.Season, p.Team1, p.Team2, p.Venue,
			p.Winner, p.PlayerOfMatch, string(p.TargetPlayer), p.RunID,
		})
	}
	if err := writeRows(f, SheetPuzzles, rows, bold); err != nil {
		f.Close()
		return nil, err
	}

	rows = make([][]any, 0, len(stats)+1)
	rows = append(rows, performanceHeader)
	for _, s := range stats {
		rows = append(rows, []any{
			shortHash(s.SourceHash), s.MatchDate, string(s.Key), s.FullName, s.Team,
			s.RunsInMatch, s.BallsFaced, round1(s.StrikeRate()),
			s.Boundaries.Fours, s.Boundaries.Sixes, s.WicketsInMatch, s.Overs(),
		})
	}
	if err := writeRows(f, SheetPerformances, rows, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, idx+1, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
