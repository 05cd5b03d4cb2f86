package model

// PlayerKey is the canonical identifier derived from a player's full name.
// It joins roster entries, delivery participants and output records.
type PlayerKey string

// ---- Raw match records (cricsheet schema) ----

type Runs struct {
	Batter int `json:"batter"`
	Extras int `json:"extras"`
	Total  int `json:"total"`
}

type Wicket struct {
	Kind      string `json:"kind"`
	PlayerOut string `json:"player_out,omitempty"`
}

type Delivery struct {
	Batter  string   `json:"batter"`
	Bowler  string   `json:"bowler"`
	Runs    Runs     `json:"runs"`
	Wickets []Wicket `json:"wickets,omitempty"`
}

type Over struct {
	Over       int        `json:"over"`
	Deliveries []Delivery `json:"deliveries"`
}

// Innings is one team's turn at batting. Team is the batting side.
type Innings struct {
	Team  string `json:"team"`
	Overs []Over `json:"overs"`
}

type Outcome struct {
	Winner string `json:"winner,omitempty"`
}

type MatchInfo struct {
	Players       map[string][]string `json:"players"` // team -> ordered full names
	PlayerOfMatch []string            `json:"player_of_match"`
	Teams         []string            `json:"teams"`
	Dates         []string            `json:"dates"`
	Venue         string              `json:"venue,omitempty"`
	City          string              `json:"city,omitempty"`
	MatchType     string              `json:"match_type,omitempty"`
	Outcome       Outcome             `json:"outcome"`
}

// MatchRecord is one decoded match file. Info is a pointer so a record that
// omits the block entirely can be told apart from one with empty fields.
type MatchRecord struct {
	Info    *MatchInfo `json:"info"`
	Innings []Innings  `json:"innings"`

	SourcePath string `json:"-"`
	SourceHash string `json:"-"` // sha256 of the decompressed JSON bytes
}

// ---- Aggregated metrics ----

type Boundaries struct {
	Fours int `json:"fours"`
	Sixes int `json:"sixes"`
}

// PlayerStat holds one player's figures for one match.
type PlayerStat struct {
	FullName       string     `json:"full_name"`
	Team           string     `json:"team"`
	RunsInMatch    int        `json:"runs_in_match"`
	WicketsInMatch int        `json:"wickets_in_match"`
	BallsFaced     int        `json:"balls_faced"`
	BallsBowled    int        `json:"balls_bowled"`
	Boundaries     Boundaries `json:"boundaries"`
	PlayedInMatch  bool       `json:"played_in_match"`
}

func (s *PlayerStat) StrikeRate() float64 {
	if s.BallsFaced == 0 {
		return 0
	}
	return float64(s.RunsInMatch) / float64(s.BallsFaced) * 100
}

// Overs renders balls bowled in the conventional "overs.balls" notation.
func (s *PlayerStat) Overs() float64 {
	return float64(s.BallsBowled/6) + float64(s.BallsBowled%6)/10
}

type TeamScore struct {
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
}

// InningsScore is the per-occurrence view of an innings total, kept in
// innings order so a side that bats twice appears twice.
type InningsScore struct {
	Number  int
	Team    string
	Runs    int
	Wickets int
	Balls   int
}

// ---- Puzzle records ----

const (
	PuzzleTypeScorecard      = "scorecard"
	PuzzleDescriptionDefault = "Guess the Player of the Match"
)

type Scorecard struct {
	Teams         []string             `json:"teams" validate:"len=2"`
	Venue         string               `json:"venue"`
	Date          string               `json:"date"`
	Season        string               `json:"season"`
	Winner        string               `json:"winner"`
	PlayerOfMatch string               `json:"player_of_match"`
	TeamScores    map[string]TeamScore `json:"team_scores" validate:"len=2"`
}

type MatchData struct {
	Scorecard          Scorecard                `json:"scorecard"`
	PlayerPerformances map[PlayerKey]PlayerStat `json:"playerPerformances" validate:"min=8"`
}

// Puzzle is assembled once per source match and never mutated afterwards,
// except for ID which the merge step renumbers.
type Puzzle struct {
	ID                int       `json:"id"`
	TargetPlayer      PlayerKey `json:"targetPlayer" validate:"required"`
	PuzzleType        string    `json:"puzzleType"`
	PuzzleContent     string    `json:"puzzleContent"`
	PuzzleDescription string    `json:"puzzleDescription"`
	MatchData         MatchData `json:"matchData"`
	Trivia            string    `json:"trivia"`
}

// PuzzleSet is the on-disk puzzle store. Metadata keeps unknown keys intact
// across merges.
type PuzzleSet struct {
	Puzzles  []Puzzle       `json:"puzzles"`
	Metadata map[string]any `json:"metadata"`
}

// ---- Player enrichment ----

type PlayerProfile struct {
	FullName    string   `json:"fullName"`
	Country     string   `json:"country"`
	CountryFlag string   `json:"countryFlag"`
	Teams       []string `json:"teams"`
	Aliases     []string `json:"aliases"`
}

// ---- Stored summaries ----

// SourceStatus records what happened to one match file in a run.
type SourceStatus string

const (
	SourceAccepted        SourceStatus = "accepted"
	SourceStructural      SourceStatus = "structural_error"
	SourceTargetMissing   SourceStatus = "target_not_found"
	SourceInvalid         SourceStatus = "validation_failed"
	SourceLoadFailed      SourceStatus = "load_failed"
	SourceAlreadyIngested SourceStatus = "already_ingested"
)

// SourceRecord is one match file's outcome in a run.
type SourceRecord struct {
	Hash   string
	Path   string
	RunID  string
	Status SourceStatus
	Reason string
}

// PuzzleSummary is a lightweight record for list/show commands.
type PuzzleSummary struct {
	SourceHash    string
	SourcePath    string
	PuzzleID      int
	TargetPlayer  PlayerKey
	Team1, Team2  string
	Venue         string
	MatchDate     string
	Season        string
	Winner        string
	PlayerOfMatch string
	RunID         string
}

// StoredPlayerStat is a PlayerStat row joined with its source match.
type StoredPlayerStat struct {
	SourceHash string
	MatchDate  string
	Key        PlayerKey
	PlayerStat
}

// PlayerCareer holds one player's figures summed across all stored puzzles.
type PlayerCareer struct {
	Key                 PlayerKey
	FullName            string
	Matches             int
	Runs                int
	Wickets             int
	BallsFaced          int
	BallsBowled         int
	Fours, Sixes        int
	PlayerOfMatchAwards int
}

func (c *PlayerCareer) StrikeRate() float64 {
	if c.BallsFaced == 0 {
		return 0
	}
	return float64(c.Runs) / float64(c.BallsFaced) * 100
}

func (c *PlayerCareer) RunsPerMatch() float64 {
	if c.Matches == 0 {
		return 0
	}
	return float64(c.Runs) / float64(c.Matches)
}

// RunSummary is one batch pipeline execution.
type RunSummary struct {
	ID                 string
	StartedAt          string
	Seed               uint64
	SampleSize         int
	FilesScanned       int
	Converted          int
	Accepted           int
	StructuralErrors   int
	TargetMissing      int
	ValidationFailures int
	LoadFailures       int
	AlreadyIngested    int
	PlayersAdded       int
}
