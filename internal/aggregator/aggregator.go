package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-cricket-puzzles/internal/model"
	"github.com/pable/go-cricket-puzzles/internal/playerkey"
)

// Dismissals that are not credited to the bowler.
var nonBowlerWickets = map[string]bool{
	"run out":      true,
	"retired hurt": true,
}

// Result is the per-player output of one match. Warnings holds key
// collisions and empty keys found while seeding the roster; they never
// abort aggregation.
type Result struct {
	Players  map[model.PlayerKey]model.PlayerStat
	Warnings []error
}

// AggregatePlayers computes a PlayerStat for every roster member who batted
// or bowled at least one delivery.
func AggregatePlayers(m *model.MatchRecord) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("nil MatchRecord")
	}
	if m.Info == nil {
		return nil, &model.StructuralError{Field: "info"}
	}

	res := &Result{}

	// ---- Pass 1: zero stats for every roster member. ----
	reg := playerkey.NewRegistry()
	accums := make(map[model.PlayerKey]*model.PlayerStat)
	for _, team := range sortedTeams(m.Info.Players) {
		for _, name := range m.Info.Players[team] {
			key, err := reg.Add(name)
			if err != nil {
				res.Warnings = append(res.Warnings, fmt.Errorf("roster %s: %w", team, err))
				if key == "" {
					continue
				}
			}
			accums[key] = &model.PlayerStat{FullName: name, Team: team}
		}
	}

	// ---- Pass 2: walk deliveries. ----
	for _, inn := range m.Innings {
		for _, over := range inn.Overs {
			for _, d := range over.Deliveries {
				if acc, ok := accums[playerkey.Normalize(d.Batter)]; ok {
					acc.PlayedInMatch = true
					acc.RunsInMatch += d.Runs.Batter
					acc.BallsFaced++
					switch d.Runs.Batter {
					case 4:
						acc.Boundaries.Fours++
					case 6:
						acc.Boundaries.Sixes++
					}
				}
				if acc, ok := accums[playerkey.Normalize(d.Bowler)]; ok {
					acc.PlayedInMatch = true
					acc.BallsBowled++
					for _, w := range d.Wickets {
						if !nonBowlerWickets[w.Kind] {
							acc.WicketsInMatch++
						}
					}
				}
			}
		}
	}

	// ---- Pass 3: keep only participants. ----
	res.Players = make(map[model.PlayerKey]model.PlayerStat, len(accums))
	for key, acc := range accums {
		if !acc.PlayedInMatch {
			continue
		}
		res.Players[key] = *acc
	}
	return res, nil
}

// TeamScores sums total runs and every wicket event per innings, keyed by the
// batting team. A team that bats twice keeps only its last innings.
func TeamScores(innings []model.Innings) map[string]model.TeamScore {
	scores := make(map[string]model.TeamScore, len(innings))
	for _, s := range InningsScores(innings) {
		scores[s.Team] = model.TeamScore{Runs: s.Runs, Wickets: s.Wickets}
	}
	return scores
}

// InningsScores returns one total per innings, in innings order.
func InningsScores(innings []model.Innings) []model.InningsScore {
	out := make([]model.InningsScore, 0, len(innings))
	for i, inn := range innings {
		s := model.InningsScore{Number: i + 1, Team: inn.Team}
		for _, over := range inn.Overs {
			for _, d := range over.Deliveries {
				s.Runs += d.Runs.Total
				s.Wickets += len(d.Wickets)
				s.Balls++
			}
		}
		out = append(out, s)
	}
	return out
}

// sortedTeams fixes the roster seeding order so collisions resolve the same
// way on every run.
func sortedTeams(players map[string][]string) []string {
	teams := make([]string, 0, len(players))
	for t := range players {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	return teams
}
