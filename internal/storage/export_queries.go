package storage

import (
	"fmt"
	"strings"

	"github.com/pable/go-cricket-puzzles/internal/model"
)

// PlayerCareers returns summed figures for each of the given keys across all
// stored puzzles, most runs first. Keys with no stored performance are
// omitted.
func (db *DB) PlayerCareers(keys []model.PlayerKey) ([]model.PlayerCareer, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	ph := placeholders(len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, string(k))
	}

	query := fmt.Sprintf(`
		SELECT p.player_key, MAX(p.full_name),
		       COUNT(DISTINCT p.source_hash),
		       SUM(p.runs), SUM(p.wickets), SUM(p.balls_faced), SUM(p.balls_bowled),
		       SUM(p.fours), SUM(p.sixes),
		       (SELECT COUNT(1) FROM puzzles z WHERE z.target_player = p.player_key)
		FROM player_stats p
		WHERE p.player_key IN (%s)
		GROUP BY p.player_key
		ORDER BY SUM(p.runs) DESC, p.player_key`, ph)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerCareer
	for rows.Next() {
		var c model.PlayerCareer
		var key string
		if err := rows.Scan(
			&key, &c.FullName, &c.Matches,
			&c.Runs, &c.Wickets, &c.BallsFaced, &c.BallsBowled,
			&c.Fours, &c.Sixes, &c.PlayerOfMatchAwards,
		); err != nil {
			return nil, err
		}
		c.Key = model.PlayerKey(key)
		out = append(out, c)
	}
	return out, rows.Err()
}

// TopAwardWinners returns the players who were most often the puzzle target.
func (db *DB) TopAwardWinners(limit int) ([]model.PlayerCareer, error) {
	rows, err := db.conn.Query(`
		SELECT target_player, COUNT(1)
		FROM puzzles
		GROUP BY target_player
		ORDER BY COUNT(1) DESC, target_player
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []model.PlayerKey
	awards := make(map[model.PlayerKey]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		keys = append(keys, model.PlayerKey(key))
		awards[model.PlayerKey(key)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	careers, err := db.PlayerCareers(keys)
	if err != nil {
		return nil, err
	}
	// Keep award order rather than run order.
	byKey := make(map[model.PlayerKey]model.PlayerCareer, len(careers))
	for _, c := range careers {
		byKey[c.Key] = c
	}
	out := make([]model.PlayerCareer, 0, len(keys))
	for _, k := range keys {
		c, ok := byKey[k]
		if !ok {
			c = model.PlayerCareer{Key: k, PlayerOfMatchAwards: awards[k]}
		}
		out = append(out, c)
	}
	return out, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
