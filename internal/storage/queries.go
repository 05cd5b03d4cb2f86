package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pable/go-cricket-puzzles/internal/model"
)

// RunExists returns true if a run with the given ID is already stored.
func (db *DB) RunExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM runs WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Prepare(query string) (*sql.Stmt, error)
}

// PuzzleRecord is one accepted puzzle with the performances behind it.
type PuzzleRecord struct {
	Summary model.PuzzleSummary
	Puzzle  *model.Puzzle
	Stats   map[model.PlayerKey]model.PlayerStat
}

// RecordRun writes a run, its source outcomes and its puzzles in one
// transaction. Nothing is stored when any insert fails.
func (db *DB) RecordRun(r model.RunSummary, sources []model.SourceRecord, puzzles []PuzzleRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertRun(tx, r); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if err := insertSources(tx, sources); err != nil {
		return err
	}
	for _, p := range puzzles {
		if err := insertPuzzle(tx, p.Summary, p.Puzzle); err != nil {
			return fmt.Errorf("insert puzzle %d: %w", p.Summary.PuzzleID, err)
		}
		if err := insertPlayerStats(tx, p.Summary.SourceHash, p.Stats); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// insertRun uses INSERT OR REPLACE so a run can be re-recorded.
func insertRun(ex execer, r model.RunSummary) error {
	_, err := ex.Exec(`
		INSERT OR REPLACE INTO runs(
			id, started_at, seed, sample_size, files_scanned,
			converted, accepted, structural_errors, target_missing,
			validation_failures, load_failures, already_ingested, players_added
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.StartedAt, int64(r.Seed), r.SampleSize, r.FilesScanned,
		r.Converted, r.Accepted, r.StructuralErrors, r.TargetMissing,
		r.ValidationFailures, r.LoadFailures, r.AlreadyIngested, r.PlayersAdded,
	)
	return err
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, started_at, seed, sample_size, files_scanned,
		       converted, accepted, structural_errors, target_missing,
		       validation_failures, load_failures, already_ingested, players_added
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		var seed int64
		if err := rows.Scan(&r.ID, &r.StartedAt, &seed, &r.SampleSize, &r.FilesScanned,
			&r.Converted, &r.Accepted, &r.StructuralErrors, &r.TargetMissing,
			&r.ValidationFailures, &r.LoadFailures, &r.AlreadyIngested, &r.PlayersAdded); err != nil {
			return nil, err
		}
		r.Seed = uint64(seed)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SourceExists returns true if a match with the given hash was accepted by an
// earlier run.
func (db *DB) SourceExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(1) FROM sources WHERE hash = ? AND status = ?",
		hash, string(model.SourceAccepted),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func insertSources(ex execer, recs []model.SourceRecord) error {
	if len(recs) == 0 {
		return nil
	}
	stmt, err := ex.Prepare(`
		INSERT OR REPLACE INTO sources(hash, path, run_id, status, reason)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.Exec(r.Hash, r.Path, r.RunID, string(r.Status), r.Reason); err != nil {
			return fmt.Errorf("insert source %s: %w", r.Path, err)
		}
	}
	return nil
}

// AcceptedSourceHashes returns the hash of every accepted source.
func (db *DB) AcceptedSourceHashes() ([]string, error) {
	rows, err := db.conn.Query("SELECT hash FROM sources WHERE status = ?", string(model.SourceAccepted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// insertPuzzle stores a published puzzle and its summary columns.
func insertPuzzle(ex execer, s model.PuzzleSummary, p *model.Puzzle) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode puzzle %d: %w", p.ID, err)
	}
	_, err = ex.Exec(`
		INSERT OR REPLACE INTO puzzles(
			source_hash, source_path, run_id, puzzle_id, target_player,
			team1, team2, venue, match_date, season, winner, player_of_match, puzzle_json
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.SourceHash, s.SourcePath, s.RunID, s.PuzzleID, string(s.TargetPlayer),
		s.Team1, s.Team2, s.Venue, s.MatchDate, s.Season, s.Winner, s.PlayerOfMatch,
		string(blob),
	)
	return err
}

const puzzleSummaryCols = `source_hash, source_path, run_id, puzzle_id, target_player,
	team1, team2, venue, match_date, season, winner, player_of_match`

func scanPuzzleSummary(sc interface{ Scan(...any) error }) (model.PuzzleSummary, error) {
	var s model.PuzzleSummary
	var target string
	err := sc.Scan(&s.SourceHash, &s.SourcePath, &s.RunID, &s.PuzzleID, &target,
		&s.Team1, &s.Team2, &s.Venue, &s.MatchDate, &s.Season, &s.Winner, &s.PlayerOfMatch)
	s.TargetPlayer = model.PlayerKey(target)
	return s, err
}

// ListPuzzles returns every stored puzzle ordered by puzzle ID.
func (db *DB) ListPuzzles() ([]model.PuzzleSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + puzzleSummaryCols + ` FROM puzzles ORDER BY puzzle_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PuzzleSummary
	for rows.Next() {
		s, err := scanPuzzleSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPuzzleByPrefix finds the first puzzle whose source hash starts with the
// given prefix. Returns nil, nil when nothing matches.
func (db *DB) GetPuzzleByPrefix(prefix string) (*model.PuzzleSummary, error) {
	row := db.conn.QueryRow(`SELECT `+puzzleSummaryCols+`
		FROM puzzles WHERE source_hash LIKE ? ORDER BY source_hash LIMIT 1`, prefix+"%")
	s, err := scanPuzzleSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPuzzle decodes the full stored puzzle for a source hash.
func (db *DB) GetPuzzle(hash string) (*model.Puzzle, error) {
	var blob string
	err := db.conn.QueryRow("SELECT puzzle_json FROM puzzles WHERE source_hash = ?", hash).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p model.Puzzle
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		return nil, fmt.Errorf("decode puzzle %s: %w", hash, err)
	}
	return &p, nil
}

func insertPlayerStats(ex execer, hash string, stats map[model.PlayerKey]model.PlayerStat) error {
	stmt, err := ex.Prepare(`
		INSERT OR REPLACE INTO player_stats(
			source_hash, player_key, full_name, team,
			runs, wickets, balls_faced, balls_bowled, fours, sixes
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, s := range stats {
		_, err = stmt.Exec(
			hash, string(key), s.FullName, s.Team,
			s.RunsInMatch, s.WicketsInMatch, s.BallsFaced, s.BallsBowled,
			s.Boundaries.Fours, s.Boundaries.Sixes,
		)
		if err != nil {
			return fmt.Errorf("insert player_stats for %s: %w", key, err)
		}
	}
	return nil
}

const playerStatCols = `p.source_hash, z.match_date, p.player_key, p.full_name, p.team,
	p.runs, p.wickets, p.balls_faced, p.balls_bowled, p.fours, p.sixes`

func scanPlayerStats(rows *sql.Rows) ([]model.StoredPlayerStat, error) {
	defer rows.Close()
	var out []model.StoredPlayerStat
	for rows.Next() {
		var s model.StoredPlayerStat
		var key string
		if err := rows.Scan(&s.SourceHash, &s.MatchDate, &key, &s.FullName, &s.Team,
			&s.RunsInMatch, &s.WicketsInMatch, &s.BallsFaced, &s.BallsBowled,
			&s.Boundaries.Fours, &s.Boundaries.Sixes); err != nil {
			return nil, err
		}
		s.Key = model.PlayerKey(key)
		s.PlayedInMatch = true
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPlayerStats returns all performances for a source hash, top scorers first.
func (db *DB) GetPlayerStats(hash string) ([]model.StoredPlayerStat, error) {
	rows, err := db.conn.Query(`SELECT `+playerStatCols+`
		FROM player_stats p
		JOIN puzzles z ON z.source_hash = p.source_hash
		WHERE p.source_hash = ?
		ORDER BY p.runs DESC, p.wickets DESC, p.player_key`, hash)
	if err != nil {
		return nil, err
	}
	return scanPlayerStats(rows)
}

// GetPlayerCareer returns every stored performance of one player, oldest match first.
func (db *DB) GetPlayerCareer(key model.PlayerKey) ([]model.StoredPlayerStat, error) {
	rows, err := db.conn.Query(`SELECT `+playerStatCols+`
		FROM player_stats p
		JOIN puzzles z ON z.source_hash = p.source_hash
		WHERE p.player_key = ?
		ORDER BY z.match_date, p.source_hash`, string(key))
	if err != nil {
		return nil, err
	}
	return scanPlayerStats(rows)
}

// AllPlayerStats returns every stored performance, ordered by match date.
func (db *DB) AllPlayerStats() ([]model.StoredPlayerStat, error) {
	rows, err := db.conn.Query(`SELECT ` + playerStatCols + `
		FROM player_stats p
		JOIN puzzles z ON z.source_hash = p.source_hash
		ORDER BY z.match_date, p.source_hash, p.runs DESC, p.player_key`)
	if err != nil {
		return nil, err
	}
	return scanPlayerStats(rows)
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
