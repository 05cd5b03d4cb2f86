// Package puzzle turns one aggregated match into a "guess the player of the
// match" puzzle and checks the result before it is stored.
package puzzle

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/pable/go-cricket-puzzles/internal/aggregator"
	"github.com/pable/go-cricket-puzzles/internal/model"
	"github.com/pable/go-cricket-puzzles/internal/playerkey"
)

const (
	dateLayout    = "2006-01-02"
	defaultVenue  = "Unknown Venue"
	defaultWinner = "No Result"
	defaultFormat = "ODI"
)

// Chooser returns an index in [0, n).
type Chooser func(n int) int

// SeededChooser returns a deterministic Chooser that is safe to share
// between goroutines.
func SeededChooser(seed uint64) Chooser {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		return r.IntN(n)
	}
}

// Assembler builds puzzles. The zero value is not usable; call NewAssembler.
type Assembler struct {
	choose Chooser
}

// NewAssembler returns an Assembler that picks trivia with choose, or with
// the global math/rand/v2 source when choose is nil.
func NewAssembler(choose Chooser) *Assembler {
	if choose == nil {
		choose = rand.IntN
	}
	return &Assembler{choose: choose}
}

// Convert aggregates m and assembles its puzzle. The aggregation result is
// returned even when assembly fails so callers can log its warnings.
func (a *Assembler) Convert(m *model.MatchRecord) (*model.Puzzle, *aggregator.Result, error) {
	if m == nil || m.Info == nil {
		return nil, nil, &model.StructuralError{Field: "info"}
	}
	if len(m.Innings) == 0 {
		return nil, nil, &model.StructuralError{Field: "innings"}
	}
	if err := checkInfo(m.Info); err != nil {
		return nil, nil, err
	}

	res, err := aggregator.AggregatePlayers(m)
	if err != nil {
		return nil, nil, fmt.Errorf("aggregate players: %w", err)
	}
	p, err := a.Assemble(m.Info, res.Players, aggregator.TeamScores(m.Innings))
	return p, res, err
}

// Assemble builds the puzzle from already aggregated figures. The returned
// puzzle carries ID 0; the merge step assigns the real one.
func (a *Assembler) Assemble(info *model.MatchInfo, stats map[model.PlayerKey]model.PlayerStat, scores map[string]model.TeamScore) (*model.Puzzle, error) {
	if info == nil {
		return nil, &model.StructuralError{Field: "info"}
	}
	if err := checkInfo(info); err != nil {
		return nil, err
	}

	potm := info.PlayerOfMatch[0]
	target := playerkey.Normalize(potm)
	if _, ok := stats[target]; !ok {
		return nil, &model.TargetNotFoundError{Key: target, Name: potm}
	}

	date := info.Dates[0]
	season, _ := Season(date) // checkInfo already parsed the date

	sc := model.Scorecard{
		Teams:         append([]string(nil), info.Teams...),
		Venue:         orDefault(info.Venue, defaultVenue),
		Date:          date,
		Season:        season,
		Winner:        orDefault(info.Outcome.Winner, defaultWinner),
		PlayerOfMatch: potm,
		TeamScores:    scores,
	}

	return &model.Puzzle{
		TargetPlayer:      target,
		PuzzleType:        model.PuzzleTypeScorecard,
		PuzzleContent:     Content(&sc),
		PuzzleDescription: model.PuzzleDescriptionDefault,
		MatchData: model.MatchData{
			Scorecard:          sc,
			PlayerPerformances: stats,
		},
		Trivia: Trivia(&sc, info.MatchType, a.choose),
	}, nil
}

func checkInfo(info *model.MatchInfo) error {
	if len(info.PlayerOfMatch) == 0 || info.PlayerOfMatch[0] == "" {
		return &model.StructuralError{Field: "player_of_match"}
	}
	if len(info.Teams) != 2 {
		return &model.StructuralError{Field: "teams"}
	}
	if len(info.Dates) == 0 {
		return &model.StructuralError{Field: "dates"}
	}
	if _, err := time.Parse(dateLayout, info.Dates[0]); err != nil {
		return &model.StructuralError{Field: "dates", Cause: err}
	}
	return nil
}

// Season renders the season a match date falls in: "2011-04-02" -> "2010/11".
func Season(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse match date %q: %w", date, err)
	}
	y := t.Year()
	return fmt.Sprintf("%d/%02d", y-1, y%100), nil
}

// Content renders the scorecard text shown to the player, with the answer
// hidden.
func Content(sc *model.Scorecard) string {
	var b strings.Builder
	b.WriteString("🏏 Match Scorecard 🏏\n")
	fmt.Fprintf(&b, "%s vs %s\n", sc.Teams[0], sc.Teams[1])
	fmt.Fprintf(&b, "Venue: %s\n", sc.Venue)
	fmt.Fprintf(&b, "Date: %s\n\n", sc.Date)
	for _, team := range sc.Teams[:2] {
		s := sc.TeamScores[team] // missing innings renders 0/0
		fmt.Fprintf(&b, "%s: %d/%d\n", team, s.Runs, s.Wickets)
	}
	fmt.Fprintf(&b, "\nWinner: %s\n", sc.Winner)
	b.WriteString("Player of the Match: ?")
	return b.String()
}

// TriviaOptions lists the candidate trivia lines for a scorecard. format is
// the match type ("ODI", "T20", ...); empty means ODI.
func TriviaOptions(sc *model.Scorecard, format string) []string {
	format = orDefault(format, defaultFormat)
	year := 0
	if t, err := time.Parse(dateLayout, sc.Date); err == nil {
		year = t.Year()
	}
	return []string{
		fmt.Sprintf("This classic %s was played at %s in %d.", format, sc.Venue, year),
		fmt.Sprintf("%s delivered a match-winning performance in this international encounter.", sc.PlayerOfMatch),
		fmt.Sprintf("A memorable clash between %s showcasing the golden era of %s cricket.", strings.Join(sc.Teams, " and "), format),
		fmt.Sprintf("This %d %s at %s featured %s's exceptional performance.", year, format, sc.Venue, sc.PlayerOfMatch),
	}
}

// Trivia picks one of TriviaOptions with choose.
func Trivia(sc *model.Scorecard, format string, choose Chooser) string {
	opts := TriviaOptions(sc, format)
	if choose == nil {
		choose = rand.IntN
	}
	return opts[choose(len(opts))]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
