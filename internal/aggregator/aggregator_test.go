package aggregator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"

	"github.com/pable/go-cricket-puzzles/internal/model"
	"github.com/pable/go-cricket-puzzles/internal/playerkey"
)

const (
	teamA = "India"
	teamB = "Australia"
)

// makeRoster returns n names for a team: "<Team> Player A", "<Team> Player B", ...
func makeRoster(team string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s Player %c", team, 'A'+i)
	}
	return names
}

// makeMatch builds a MatchRecord with 11-a-side rosters and the given innings.
func makeMatch(innings ...model.Innings) *model.MatchRecord {
	return &model.MatchRecord{
		Info: &model.MatchInfo{
			Players: map[string][]string{
				teamA: makeRoster(teamA, 11),
				teamB: makeRoster(teamB, 11),
			},
			Teams: []string{teamA, teamB},
			Dates: []string{"2011-04-02"},
		},
		Innings: innings,
	}
}

// ball returns a delivery; wicket kinds are optional.
func ball(batter, bowler string, batterRuns, total int, kinds ...string) model.Delivery {
	d := model.Delivery{
		Batter: batter,
		Bowler: bowler,
		Runs:   model.Runs{Batter: batterRuns, Extras: total - batterRuns, Total: total},
	}
	for _, k := range kinds {
		d.Wickets = append(d.Wickets, model.Wicket{Kind: k, PlayerOut: batter})
	}
	return d
}

// overs wraps each delivery in its own over.
func overs(deliveries ...model.Delivery) []model.Over {
	out := make([]model.Over, len(deliveries))
	for i, d := range deliveries {
		out[i] = model.Over{Over: i, Deliveries: []model.Delivery{d}}
	}
	return out
}

var (
	star    = teamA + " Player A"
	starKey = playerkey.Normalize(star)
)

// TestAggregate_PlayerOfMatchScenario: the star hits a four in the first
// innings, then takes two bowled wickets and one run out in the second.
func TestAggregate_PlayerOfMatchScenario(t *testing.T) {
	m := makeMatch(
		model.Innings{Team: teamA, Overs: overs(
			ball(star, teamB+" Player A", 4, 4),
			ball(teamA+" Player B", teamB+" Player B", 1, 1),
		)},
		model.Innings{Team: teamB, Overs: overs(
			ball(teamB+" Player C", star, 0, 0, "bowled"),
			ball(teamB+" Player D", star, 0, 0, "bowled"),
			ball(teamB+" Player E", star, 0, 0, "run out"),
		)},
	)

	res, err := AggregatePlayers(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := model.PlayerStat{
		FullName:       star,
		Team:           teamA,
		RunsInMatch:    4,
		WicketsInMatch: 2,
		BallsFaced:     1,
		BallsBowled:    3,
		Boundaries:     model.Boundaries{Fours: 1},
		PlayedInMatch:  true,
	}
	if diff := cmp.Diff(want, res.Players[starKey]); diff != "" {
		t.Errorf("star stat mismatch (-want +got):\n%s", diff)
	}
	// star + A:B bat/bowl, B:A, B:B bowl, B:C, B:D, B:E bat.
	if len(res.Players) != 7 {
		t.Errorf("expected 7 participants, got %d", len(res.Players))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
}

// TestAggregate_ParticipationFilter: every returned key participated and came
// from the roster.
func TestAggregate_ParticipationFilter(t *testing.T) {
	m := makeMatch(model.Innings{Team: teamA, Overs: overs(
		ball(teamA+" Player A", teamB+" Player K", 2, 2),
		ball("Unknown Guest", teamB+" Player K", 6, 6),
		ball(teamA+" Player C", "Another Stranger", 1, 1),
	)})

	res, err := AggregatePlayers(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	roster := make(map[model.PlayerKey]bool)
	for _, names := range m.Info.Players {
		for _, n := range names {
			roster[playerkey.Normalize(n)] = true
		}
	}
	for key, s := range res.Players {
		if !s.PlayedInMatch {
			t.Errorf("%s: PlayedInMatch=false survived the filter", key)
		}
		if !roster[key] {
			t.Errorf("%s: not in roster", key)
		}
	}
	if len(res.Players) != 3 {
		t.Errorf("expected 3 participants (A:A, A:C, B:K), got %d", len(res.Players))
	}
	// The unknown batter's six is not credited to anybody.
	bowler := res.Players[playerkey.Normalize(teamB+" Player K")]
	if bowler.BallsBowled != 2 {
		t.Errorf("bowler balls: want 2, got %d", bowler.BallsBowled)
	}
}

// TestAggregate_WicketCredit: only non run-out, non retired-hurt dismissals
// are credited to the bowler.
func TestAggregate_WicketCredit(t *testing.T) {
	kinds := []struct {
		kind     string
		credited bool
	}{
		{"bowled", true},
		{"caught", true},
		{"lbw", true},
		{"stumped", true},
		{"hit wicket", true},
		{"caught and bowled", true},
		{"run out", false},
		{"retired hurt", false},
	}
	bowler := teamB + " Player J"
	for _, k := range kinds {
		t.Run(k.kind, func(t *testing.T) {
			m := makeMatch(model.Innings{Team: teamA, Overs: overs(
				ball(teamA+" Player A", bowler, 0, 0, k.kind),
			)})
			res, err := AggregatePlayers(m)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := res.Players[playerkey.Normalize(bowler)].WicketsInMatch
			want := 0
			if k.credited {
				want = 1
			}
			if got != want {
				t.Errorf("%s: want %d wickets, got %d", k.kind, want, got)
			}
		})
	}
}

func TestAggregate_Boundaries(t *testing.T) {
	bat := teamA + " Player D"
	m := makeMatch(model.Innings{Team: teamA, Overs: overs(
		ball(bat, teamB+" Player A", 4, 4),
		ball(bat, teamB+" Player A", 6, 6),
		ball(bat, teamB+" Player A", 6, 7), // six plus a no-ball
		ball(bat, teamB+" Player A", 5, 5), // five is not a boundary
		ball(bat, teamB+" Player A", 0, 4), // four byes: not off the bat
	)})
	res, err := AggregatePlayers(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := res.Players[playerkey.Normalize(bat)]
	if s.Boundaries.Fours != 1 || s.Boundaries.Sixes != 2 {
		t.Errorf("boundaries: want 1x4 2x6, got %dx4 %dx6", s.Boundaries.Fours, s.Boundaries.Sixes)
	}
	if s.RunsInMatch != 21 || s.BallsFaced != 5 {
		t.Errorf("runs/balls: want 21/5, got %d/%d", s.RunsInMatch, s.BallsFaced)
	}
}

// TestAggregate_EmptyInningsAndOvers: empty structures are skipped.
func TestAggregate_EmptyInningsAndOvers(t *testing.T) {
	m := makeMatch(
		model.Innings{Team: teamA},
		model.Innings{Team: teamB, Overs: []model.Over{{Over: 0}}},
	)
	res, err := AggregatePlayers(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Players) != 0 {
		t.Errorf("expected no participants, got %d", len(res.Players))
	}
}

func TestAggregate_RosterCollisionWarns(t *testing.T) {
	m := makeMatch(model.Innings{Team: teamA, Overs: overs(
		ball("V Kohli", teamB+" Player A", 1, 1),
	)})
	m.Info.Players[teamA] = append(m.Info.Players[teamA], "V Kohli", "V. Kohli", "99")

	res, err := AggregatePlayers(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected collision + empty-key warnings, got %v", res.Warnings)
	}
	var ce *playerkey.CollisionError
	if !errors.As(res.Warnings[0], &ce) {
		t.Errorf("first warning: expected CollisionError, got %v", res.Warnings[0])
	}
	if !errors.Is(res.Warnings[1], playerkey.ErrEmptyKey) {
		t.Errorf("second warning: expected ErrEmptyKey, got %v", res.Warnings[1])
	}
	// Last roster entry wins the key.
	if got := res.Players["VKOHLI"].FullName; got != "V. Kohli" {
		t.Errorf("expected last write to win, got %q", got)
	}
}

func TestAggregate_NilInputs(t *testing.T) {
	if _, err := AggregatePlayers(nil); err == nil {
		t.Error("expected error for nil record")
	}
	_, err := AggregatePlayers(&model.MatchRecord{})
	var se *model.StructuralError
	if !errors.As(err, &se) || se.Field != "info" {
		t.Errorf("expected StructuralError on info, got %v", err)
	}
}

// ---- Team scores ----

// TestTeamScores_Additivity: runs equal the sum of delivery totals, wickets
// the count of every wicket event regardless of kind.
func TestTeamScores_Additivity(t *testing.T) {
	f := gofakeit.New(7)
	kinds := []string{"bowled", "caught", "run out", "retired hurt", "lbw"}

	var innings []model.Innings
	wantRuns := map[string]int{}
	wantWkts := map[string]int{}
	for _, team := range []string{teamA, teamB} {
		inn := model.Innings{Team: team}
		for o := 0; o < 20; o++ {
			over := model.Over{Over: o}
			for b := 0; b < 6; b++ {
				total := f.IntRange(0, 7)
				d := model.Delivery{Batter: "x", Bowler: "y", Runs: model.Runs{Total: total}}
				if f.IntRange(0, 9) == 0 {
					d.Wickets = append(d.Wickets, model.Wicket{Kind: kinds[f.IntRange(0, len(kinds)-1)]})
				}
				wantRuns[team] += total
				wantWkts[team] += len(d.Wickets)
				over.Deliveries = append(over.Deliveries, d)
			}
			inn.Overs = append(inn.Overs, over)
		}
		innings = append(innings, inn)
	}

	scores := TeamScores(innings)
	if len(scores) != 2 {
		t.Fatalf("expected 2 team scores, got %d", len(scores))
	}
	for _, team := range []string{teamA, teamB} {
		if scores[team].Runs != wantRuns[team] {
			t.Errorf("%s runs: want %d, got %d", team, wantRuns[team], scores[team].Runs)
		}
		if scores[team].Wickets != wantWkts[team] {
			t.Errorf("%s wickets: want %d, got %d", team, wantWkts[team], scores[team].Wickets)
		}
	}
}

func TestTeamScores_RunOutCountsAgainstBattingSide(t *testing.T) {
	scores := TeamScores([]model.Innings{{Team: teamA, Overs: overs(
		ball("a", "b", 0, 0, "run out"),
		ball("a", "b", 0, 0, "retired hurt"),
		ball("a", "b", 2, 3, "caught"),
	)}})
	if got := scores[teamA]; got != (model.TeamScore{Runs: 3, Wickets: 3}) {
		t.Errorf("want 3/3, got %d/%d", got.Runs, got.Wickets)
	}
}

// TestTeamScores_RepeatedTeamLastWins: a second innings for the same team
// overwrites the first; InningsScores keeps both.
func TestTeamScores_RepeatedTeamLastWins(t *testing.T) {
	innings := []model.Innings{
		{Team: teamA, Overs: overs(ball("a", "b", 4, 4))},
		{Team: teamB, Overs: overs(ball("c", "d", 1, 1))},
		{Team: teamA, Overs: overs(ball("a", "b", 6, 6), ball("a", "b", 0, 0, "bowled"))},
	}
	scores := TeamScores(innings)
	if len(scores) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(scores))
	}
	if got := scores[teamA]; got != (model.TeamScore{Runs: 6, Wickets: 1}) {
		t.Errorf("team A: want last innings 6/1, got %d/%d", got.Runs, got.Wickets)
	}

	per := InningsScores(innings)
	if len(per) != 3 {
		t.Fatalf("expected 3 innings scores, got %d", len(per))
	}
	if per[0].Runs != 4 || per[2].Runs != 6 || per[2].Number != 3 || per[2].Balls != 2 {
		t.Errorf("unexpected innings scores: %+v", per)
	}
}
