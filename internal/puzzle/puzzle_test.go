package puzzle

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cricket-puzzles/internal/model"
	"github.com/pable/go-cricket-puzzles/internal/playerkey"
)

func roster(team string) []string {
	out := make([]string, 11)
	for i := range out {
		out[i] = fmt.Sprintf("%s Player %c", team, 'A'+i)
	}
	return out
}

func delivery(batter, bowler string, runs int, wicketKind string) model.Delivery {
	d := model.Delivery{Batter: batter, Bowler: bowler, Runs: model.Runs{Batter: runs, Total: runs}}
	if wicketKind != "" {
		d.Wickets = []model.Wicket{{Kind: wicketKind, PlayerOut: batter}}
	}
	return d
}

// finalMatch is a two-innings 11-a-side match. The player of the match scores
// 4 (one four) and takes two bowled wickets plus one run out.
func finalMatch() *model.MatchRecord {
	var first, second []model.Delivery
	for i := 0; i < 5; i++ {
		bowler := fmt.Sprintf("Sri Lanka Player %c", 'G'+i)
		first = append(first, delivery(fmt.Sprintf("India Player %c", 'B'+i), bowler, 1, ""))
	}
	first = append(first, delivery("India Player A", "Sri Lanka Player K", 4, ""))
	for i := 0; i < 5; i++ {
		second = append(second, delivery(fmt.Sprintf("Sri Lanka Player %c", 'A'+i), "India Player J", 2, ""))
	}
	second = append(second,
		delivery("Sri Lanka Player F", "India Player A", 0, "bowled"),
		delivery("Sri Lanka Player G", "India Player A", 0, "bowled"),
		delivery("Sri Lanka Player H", "India Player A", 0, "run out"),
	)
	return &model.MatchRecord{
		Info: &model.MatchInfo{
			Players: map[string][]string{
				"India":     roster("India"),
				"Sri Lanka": roster("Sri Lanka"),
			},
			PlayerOfMatch: []string{"India Player A"},
			Teams:         []string{"India", "Sri Lanka"},
			Dates:         []string{"2011-04-02"},
			Venue:         "Wankhede Stadium",
			MatchType:     "ODI",
			Outcome:       model.Outcome{Winner: "India"},
		},
		Innings: []model.Innings{
			{Team: "India", Overs: []model.Over{{Over: 0, Deliveries: first}}},
			{Team: "Sri Lanka", Overs: []model.Over{{Over: 0, Deliveries: second}}},
		},
	}
}

func TestConvert_FinalScenario(t *testing.T) {
	a := NewAssembler(func(int) int { return 0 })
	p, res, err := a.Convert(finalMatch())
	require.NoError(t, err)
	require.NotNil(t, res)

	key := playerkey.Normalize("India Player A")
	assert.Equal(t, key, p.TargetPlayer)
	star := p.MatchData.PlayerPerformances[key]
	assert.Equal(t, 4, star.RunsInMatch)
	assert.Equal(t, 1, star.Boundaries.Fours)
	assert.Equal(t, 2, star.WicketsInMatch, "run out must not be credited")

	sc := p.MatchData.Scorecard
	assert.Equal(t, "2010/11", sc.Season)
	assert.Equal(t, "India", sc.Winner)
	assert.Equal(t, model.TeamScore{Runs: 9, Wickets: 0}, sc.TeamScores["India"])
	assert.Equal(t, model.TeamScore{Runs: 10, Wickets: 3}, sc.TeamScores["Sri Lanka"])

	assert.Equal(t, model.PuzzleTypeScorecard, p.PuzzleType)
	assert.Equal(t, model.PuzzleDescriptionDefault, p.PuzzleDescription)
	assert.Equal(t, "This classic ODI was played at Wankhede Stadium in 2011.", p.Trivia)
	assert.Zero(t, p.ID)

	assert.True(t, Validate(p))
	assert.NoError(t, Check(p))
}

func TestContent(t *testing.T) {
	sc := &model.Scorecard{
		Teams:  []string{"India", "Sri Lanka"},
		Venue:  "Wankhede Stadium",
		Date:   "2011-04-02",
		Winner: "India",
		TeamScores: map[string]model.TeamScore{
			"India":     {Runs: 277, Wickets: 4},
			"Sri Lanka": {Runs: 274, Wickets: 6},
		},
	}
	want := "🏏 Match Scorecard 🏏\n" +
		"India vs Sri Lanka\n" +
		"Venue: Wankhede Stadium\n" +
		"Date: 2011-04-02\n\n" +
		"India: 277/4\n" +
		"Sri Lanka: 274/6\n\n" +
		"Winner: India\n" +
		"Player of the Match: ?"
	assert.Equal(t, want, Content(sc))

	delete(sc.TeamScores, "Sri Lanka")
	assert.Contains(t, Content(sc), "Sri Lanka: 0/0")
}

func TestSeason(t *testing.T) {
	cases := map[string]string{
		"2011-04-02": "2010/11",
		"2005-01-09": "2004/05",
		"2000-12-31": "1999/00",
	}
	for date, want := range cases {
		got, err := Season(date)
		require.NoError(t, err, date)
		assert.Equal(t, want, got, date)
	}
	_, err := Season("02/04/2011")
	assert.Error(t, err)
}

func TestTrivia(t *testing.T) {
	sc := &model.Scorecard{
		Teams:         []string{"England", "New Zealand"},
		Venue:         "Lord's",
		Date:          "2019-07-14",
		PlayerOfMatch: "BA Stokes",
	}
	want := []string{
		"This classic ODI was played at Lord's in 2019.",
		"BA Stokes delivered a match-winning performance in this international encounter.",
		"A memorable clash between England and New Zealand showcasing the golden era of ODI cricket.",
		"This 2019 ODI at Lord's featured BA Stokes's exceptional performance.",
	}
	assert.Equal(t, want, TriviaOptions(sc, ""))
	for i, w := range want {
		assert.Equal(t, w, Trivia(sc, "ODI", func(int) int { return i }))
	}
	assert.Contains(t, Trivia(sc, "T20", func(int) int { return 2 }), "golden era of T20 cricket")
}

func TestSeededChooser_Deterministic(t *testing.T) {
	a, b := SeededChooser(99), SeededChooser(99)
	for i := 0; i < 50; i++ {
		x, y := a(4), b(4)
		require.Equal(t, x, y)
		require.True(t, x >= 0 && x < 4)
	}
}

func TestConvert_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(m *model.MatchRecord)
		field string
	}{
		{"missing info", func(m *model.MatchRecord) { m.Info = nil }, "info"},
		{"missing innings", func(m *model.MatchRecord) { m.Innings = nil }, "innings"},
		{"missing player of match", func(m *model.MatchRecord) { m.Info.PlayerOfMatch = nil }, "player_of_match"},
		{"one team", func(m *model.MatchRecord) { m.Info.Teams = m.Info.Teams[:1] }, "teams"},
		{"missing dates", func(m *model.MatchRecord) { m.Info.Dates = nil }, "dates"},
		{"bad date", func(m *model.MatchRecord) { m.Info.Dates = []string{"April 2"} }, "dates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := finalMatch()
			tt.edit(m)
			p, _, err := NewAssembler(nil).Convert(m)
			assert.Nil(t, p)
			var se *model.StructuralError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestConvert_TargetNotFound(t *testing.T) {
	m := finalMatch()
	m.Info.PlayerOfMatch = []string{"India Player K"} // on the roster, never played
	p, res, err := NewAssembler(nil).Convert(m)
	assert.Nil(t, p)
	assert.NotNil(t, res)
	var tnf *model.TargetNotFoundError
	require.True(t, errors.As(err, &tnf), "got %v", err)
	assert.Equal(t, playerkey.Normalize("India Player K"), tnf.Key)
}

func TestConvert_Defaults(t *testing.T) {
	m := finalMatch()
	m.Info.Venue = ""
	m.Info.Outcome.Winner = ""
	p, _, err := NewAssembler(nil).Convert(m)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Venue", p.MatchData.Scorecard.Venue)
	assert.Equal(t, "No Result", p.MatchData.Scorecard.Winner)
	assert.True(t, strings.HasSuffix(p.PuzzleContent, "Winner: No Result\nPlayer of the Match: ?"))
}

// ---- Validation ----

func validPuzzle(t *testing.T) *model.Puzzle {
	t.Helper()
	p, _, err := NewAssembler(nil).Convert(finalMatch())
	require.NoError(t, err)
	return p
}

func TestValidate_EachRule(t *testing.T) {
	tests := []struct {
		name string
		edit func(p *model.Puzzle)
		rule string
	}{
		{"empty target", func(p *model.Puzzle) { p.TargetPlayer = "" }, "required"},
		{"target without performance", func(p *model.Puzzle) { p.TargetPlayer = "NOBODY" }, "performer"},
		{"three teams", func(p *model.Puzzle) {
			p.MatchData.Scorecard.Teams = append(p.MatchData.Scorecard.Teams, "Kenya")
		}, "len=2"},
		{"seven performers", func(p *model.Puzzle) {
			keep := map[model.PlayerKey]model.PlayerStat{p.TargetPlayer: p.MatchData.PlayerPerformances[p.TargetPlayer]}
			for k, v := range p.MatchData.PlayerPerformances {
				if len(keep) == 7 {
					break
				}
				keep[k] = v
			}
			p.MatchData.PlayerPerformances = keep
		}, "min=8"},
		{"one team score", func(p *model.Puzzle) {
			delete(p.MatchData.Scorecard.TeamScores, "Sri Lanka")
		}, "len=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPuzzle(t)
			tt.edit(p)
			assert.False(t, Validate(p))
			err := Check(p)
			require.ErrorIs(t, err, model.ErrValidationFailed)
			assert.Contains(t, err.Error(), tt.rule)
		})
	}
}

func TestValidate_ExactlyEightPerformers(t *testing.T) {
	p := validPuzzle(t)
	keep := map[model.PlayerKey]model.PlayerStat{p.TargetPlayer: p.MatchData.PlayerPerformances[p.TargetPlayer]}
	for k, v := range p.MatchData.PlayerPerformances {
		if len(keep) == 8 {
			break
		}
		keep[k] = v
	}
	p.MatchData.PlayerPerformances = keep
	assert.True(t, Validate(p))
}

func TestValidate_Nil(t *testing.T) {
	assert.False(t, Validate(nil))
	assert.ErrorIs(t, Check(nil), model.ErrValidationFailed)
	assert.False(t, Validate(&model.Puzzle{}))
}
