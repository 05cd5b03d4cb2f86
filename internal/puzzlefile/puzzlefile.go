// Package puzzlefile reads and writes the JSON stores the game consumes:
// players.json and match_puzzles.json.
package puzzlefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/pable/go-cricket-puzzles/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	PatternAlternating = "alternating_existing_new"
	sequenceInfo       = "existing puzzles (odd IDs) alternating with new puzzles (even IDs)"
)

// LoadPlayers reads the players store. A missing file is an empty store.
func LoadPlayers(path string) (map[model.PlayerKey]model.PlayerProfile, error) {
	players := make(map[model.PlayerKey]model.PlayerProfile)
	if err := readJSON(path, &players); err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	return players, nil
}

func SavePlayers(path string, players map[model.PlayerKey]model.PlayerProfile) error {
	if err := writeJSONAtomic(path, players); err != nil {
		return fmt.Errorf("save players: %w", err)
	}
	return nil
}

// LoadPuzzleSet reads the puzzle store. A missing file is an empty set.
func LoadPuzzleSet(path string) (*model.PuzzleSet, error) {
	set := &model.PuzzleSet{}
	if err := readJSON(path, set); err != nil {
		return nil, fmt.Errorf("load puzzles: %w", err)
	}
	if set.Puzzles == nil {
		set.Puzzles = []model.Puzzle{}
	}
	if set.Metadata == nil {
		set.Metadata = make(map[string]any)
	}
	return set, nil
}

func SavePuzzleSet(path string, set *model.PuzzleSet) error {
	if err := writeJSONAtomic(path, set); err != nil {
		return fmt.Errorf("save puzzles: %w", err)
	}
	return nil
}

// Interleave renumbers existing and incoming into one sequence starting at
// 1: existing[0], incoming[0], existing[1], incoming[1], ... Once either side
// runs out the rest of the other follows in order. Inputs are not modified.
func Interleave(existing, incoming []model.Puzzle) []model.Puzzle {
	out := make([]model.Puzzle, 0, len(existing)+len(incoming))
	n := max(len(existing), len(incoming))
	for i := 0; i < n; i++ {
		if i < len(existing) {
			p := existing[i]
			p.ID = len(out) + 1
			out = append(out, p)
		}
		if i < len(incoming) {
			p := incoming[i]
			p.ID = len(out) + 1
			out = append(out, p)
		}
	}
	return out
}

// IncomingIDs returns the IDs Interleave gives to each incoming puzzle when
// merged after nExisting puzzles.
func IncomingIDs(nExisting, nIncoming int) []int {
	ids := make([]int, nIncoming)
	for i := range ids {
		if i < nExisting {
			ids[i] = 2*i + 2
		} else {
			ids[i] = nExisting + i + 1
		}
	}
	return ids
}

// MergeInfo describes the run that produced the incoming puzzles.
type MergeInfo struct {
	RunID        string
	PlayersAdded int
	Now          time.Time
}

// Merge interleaves incoming into set and returns the new set. Metadata keys
// the merge does not own are carried over unchanged.
func Merge(set *model.PuzzleSet, incoming []model.Puzzle, info MergeInfo) *model.PuzzleSet {
	var existing []model.Puzzle
	meta := make(map[string]any)
	if set != nil {
		existing = set.Puzzles
		for k, v := range set.Metadata {
			meta[k] = v
		}
	}
	if info.Now.IsZero() {
		info.Now = time.Now()
	}

	merged := Interleave(existing, incoming)
	meta["total_puzzles"] = len(merged)
	meta["puzzles_created"] = len(merged)
	meta["last_updated"] = info.Now.Format(time.RFC3339)
	meta["puzzle_pattern"] = PatternAlternating
	meta["existing_puzzles_count"] = len(existing)
	meta["new_puzzles_count"] = len(incoming)
	meta["players_added"] = info.PlayersAdded
	meta["sequence_info"] = sequenceInfo
	if info.RunID != "" {
		meta["run_id"] = info.RunID
	}
	return &model.PuzzleSet{Puzzles: merged, Metadata: meta}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSONAtomic writes v as indented JSON to a temp file next to path and
// renames it into place, so a crash never leaves a half-written store.
func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
