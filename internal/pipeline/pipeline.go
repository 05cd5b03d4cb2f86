// Package pipeline runs a batch: load a directory of match files, collect
// players, sample matches, convert them to puzzles and merge everything into
// the JSON stores and the SQLite database.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-cricket-puzzles/internal/config"
	"github.com/pable/go-cricket-puzzles/internal/metrics"
	"github.com/pable/go-cricket-puzzles/internal/model"
	"github.com/pable/go-cricket-puzzles/internal/parser"
	"github.com/pable/go-cricket-puzzles/internal/playerkey"
	"github.com/pable/go-cricket-puzzles/internal/puzzle"
	"github.com/pable/go-cricket-puzzles/internal/puzzlefile"
	"github.com/pable/go-cricket-puzzles/internal/roster"
	"github.com/pable/go-cricket-puzzles/internal/storage"
)

var (
	ErrNoMatchFiles  = errors.New("no match files found")
	ErrNothingLoaded = errors.New("no match file could be loaded")
)

// Options carries the collaborators of a run. Everything but Config is
// optional.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *storage.DB // nil disables dedup and run history
	Metrics *metrics.Metrics
	Lookup  *roster.Lookup
	Sink    roster.Sink // defaults to a Collector over Lookup
	Now     func() time.Time
}

// Report is what a run did.
type Report struct {
	Run      model.RunSummary
	Failures []model.SourceRecord
	Puzzles  []model.Puzzle // accepted this run, carrying their merged IDs
}

type loaded struct {
	path  string
	match *model.MatchRecord
	err   error
}

type accepted struct {
	puzzle *model.Puzzle
	src    *model.MatchRecord
}

// Run executes one batch. Per-match problems are counted and reported; the
// run only fails when there is nothing to work with or a store cannot be
// written.
func Run(ctx context.Context, opts Options) (*Report, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("pipeline: nil config")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	started := now()
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(started.UnixNano())
	}
	runID := uuid.NewString()
	rep := &Report{Run: model.RunSummary{
		ID:         runID,
		StartedAt:  started.UTC().Format(time.RFC3339),
		Seed:       seed,
		SampleSize: cfg.SampleSize,
	}}
	log = log.With("run_id", runID)

	// ---- Scan and load. ----
	files, err := parser.ListMatchFiles(cfg.MatchDir)
	if err != nil {
		return nil, fmt.Errorf("scan match dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMatchFiles, cfg.MatchDir)
	}
	rep.Run.FilesScanned = len(files)
	log.InfoContext(ctx, "scanning match files", "dir", cfg.MatchDir, "files", len(files), "seed", seed)

	results, err := loadAll(ctx, files, cfg.Workers)
	if err != nil {
		return nil, err
	}

	var matches []*model.MatchRecord
	for _, r := range results {
		if r.err == nil {
			m.FilesLoaded.Inc()
			matches = append(matches, r.match)
			continue
		}
		m.FilesFailed.Inc()
		rec := model.SourceRecord{Path: r.path, RunID: runID, Reason: r.err.Error()}
		var serr *model.StructuralError
		if errors.As(r.err, &serr) {
			rec.Status = model.SourceStructural
			rep.Run.StructuralErrors++
		} else {
			rec.Status = model.SourceLoadFailed
			rep.Run.LoadFailures++
		}
		m.Rejections.WithLabelValues(string(rec.Status)).Inc()
		rep.Failures = append(rep.Failures, rec)
		log.WarnContext(ctx, "skipping match file", "file", r.path, "status", rec.Status, "err", r.err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w from %s", ErrNothingLoaded, cfg.MatchDir)
	}

	// ---- Collect players from every loaded roster. ----
	sink := opts.Sink
	if sink == nil {
		lookup := opts.Lookup
		if lookup == nil {
			lookup, err = roster.LoadLookup(cfg.CountriesPath)
			if err != nil {
				return nil, err
			}
		}
		sink = roster.NewCollector(lookup)
	}
	for _, match := range matches {
		for _, werr := range sink.ObserveMatch(match) {
			noteRosterWarning(ctx, log, m, match.SourcePath, werr)
		}
	}
	m.PlayersDiscovered.Add(float64(sink.Len()))
	log.InfoContext(ctx, "collected players", "players", sink.Len())

	// ---- Sample and convert. ----
	var seen *storage.SeenFilter
	if opts.DB != nil {
		seen, err = opts.DB.NewSeenFilter(len(matches))
		if err != nil {
			return nil, err
		}
	}
	order := samplingRand(seed).Perm(len(matches))
	asm := puzzle.NewAssembler(puzzle.SeededChooser(triviaSeed(seed)))

	var sources []model.SourceRecord
	var picked []accepted
	taken := make(map[string]bool)
	nextID := cfg.StartingID
	sampled := 0
	for _, idx := range order {
		if sampled >= cfg.SampleSize {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		match := matches[idx]
		dup := taken[match.SourceHash]
		if !dup && seen != nil {
			if dup, err = seen.Seen(match.SourceHash); err != nil {
				return nil, fmt.Errorf("check source %s: %w", match.SourcePath, err)
			}
		}
		if dup {
			rep.Run.AlreadyIngested++
			m.Rejections.WithLabelValues(string(model.SourceAlreadyIngested)).Inc()
			log.DebugContext(ctx, "already ingested", "file", match.SourcePath)
			continue
		}
		sampled++
		taken[match.SourceHash] = true

		rec := model.SourceRecord{Hash: match.SourceHash, Path: match.SourcePath, RunID: runID}
		p, err := convert(ctx, log, m, asm, match)
		if err != nil {
			rec.Status, rec.Reason = classify(err), err.Error()
			switch rec.Status {
			case model.SourceTargetMissing:
				rep.Run.TargetMissing++
			case model.SourceInvalid:
				rep.Run.ValidationFailures++
			default:
				rep.Run.StructuralErrors++
			}
			m.Rejections.WithLabelValues(string(rec.Status)).Inc()
			log.WarnContext(ctx, "match rejected", "file", match.SourcePath, "status", rec.Status, "err", err)
			sources = append(sources, rec)
			rep.Failures = append(rep.Failures, rec)
			continue
		}

		p.ID = nextID
		nextID++
		rep.Run.Accepted++
		m.PuzzlesAccepted.Inc()
		rec.Status = model.SourceAccepted
		sources = append(sources, rec)
		picked = append(picked, accepted{puzzle: p, src: match})
		if seen != nil {
			seen.Add(match.SourceHash)
		}
		log.InfoContext(ctx, "puzzle created", "file", match.SourcePath, "id", p.ID, "target", p.TargetPlayer)
	}
	// A puzzle that failed validation was still converted.
	rep.Run.Converted = rep.Run.Accepted + rep.Run.ValidationFailures

	// ---- Merge stores in memory. ----
	existingPlayers, err := puzzlefile.LoadPlayers(cfg.PlayersPath)
	if err != nil {
		return nil, err
	}
	added, updated := roster.Merge(existingPlayers, sink.Players())
	rep.Run.PlayersAdded = added

	var merged *model.PuzzleSet
	existingPuzzles := 0
	if len(picked) > 0 {
		set, err := puzzlefile.LoadPuzzleSet(cfg.PuzzlesPath)
		if err != nil {
			return nil, err
		}
		existingPuzzles = len(set.Puzzles)
		fresh := make([]model.Puzzle, len(picked))
		for i, a := range picked {
			fresh[i] = *a.puzzle
		}
		merged = puzzlefile.Merge(set, fresh, puzzlefile.MergeInfo{RunID: runID, PlayersAdded: added, Now: started})
		for i, id := range puzzlefile.IncomingIDs(existingPuzzles, len(picked)) {
			picked[i].puzzle.ID = id
		}
	}
	for _, a := range picked {
		rep.Puzzles = append(rep.Puzzles, *a.puzzle)
	}

	// ---- Record, then publish. ----
	// A source recorded as accepted is never sampled again, so the stores are
	// only written once the run is in SQLite.
	if opts.DB != nil {
		if err := record(opts.DB, rep.Run, sources, picked); err != nil {
			return nil, err
		}
	}
	if err := puzzlefile.SavePlayers(cfg.PlayersPath, existingPlayers); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "players saved", "path", cfg.PlayersPath, "added", added, "updated", updated, "total", len(existingPlayers))
	if merged != nil {
		if err := puzzlefile.SavePuzzleSet(cfg.PuzzlesPath, merged); err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "puzzles saved", "path", cfg.PuzzlesPath,
			"existing", existingPuzzles, "new", len(picked), "total", len(merged.Puzzles))
	} else {
		log.WarnContext(ctx, "no new puzzles; puzzle store left unchanged", "path", cfg.PuzzlesPath)
	}
	m.RunDuration.Set(now().Sub(started).Seconds())
	if cfg.MetricsTextfile != "" {
		if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.WarnContext(ctx, "metrics not written", "path", cfg.MetricsTextfile, "err", err)
		}
	}
	log.InfoContext(ctx, "run complete",
		"accepted", rep.Run.Accepted,
		"structural_errors", rep.Run.StructuralErrors,
		"target_not_found", rep.Run.TargetMissing,
		"validation_failed", rep.Run.ValidationFailures,
		"already_ingested", rep.Run.AlreadyIngested,
	)
	return rep, nil
}

// loadAll decodes every file with at most workers in flight. Per-file errors
// are kept in the result; only cancellation aborts.
func loadAll(ctx context.Context, files []string, workers int) ([]loaded, error) {
	out := make([]loaded, len(files))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			match, err := parser.LoadMatch(path)
			out[i] = loaded{path: path, match: match, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load match files: %w", err)
	}
	return out, nil
}

// samplingRand orders the loaded matches. The trivia chooser gets its own
// stream from triviaSeed so template picks do not follow file order.
func samplingRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func triviaSeed(seed uint64) uint64 {
	return seed + 1
}

func convert(ctx context.Context, log *slog.Logger, m *metrics.Metrics, asm *puzzle.Assembler, match *model.MatchRecord) (*model.Puzzle, error) {
	p, res, err := asm.Convert(match)
	if res != nil {
		for _, w := range res.Warnings {
			noteRosterWarning(ctx, log, m, match.SourcePath, w)
		}
	}
	if err != nil {
		return nil, err
	}
	m.PuzzlesConverted.Inc()
	if err := puzzle.Check(p); err != nil {
		return nil, err
	}
	return p, nil
}

func classify(err error) model.SourceStatus {
	var target *model.TargetNotFoundError
	switch {
	case errors.As(err, &target):
		return model.SourceTargetMissing
	case errors.Is(err, model.ErrValidationFailed):
		return model.SourceInvalid
	default:
		return model.SourceStructural
	}
}

func noteRosterWarning(ctx context.Context, log *slog.Logger, m *metrics.Metrics, path string, err error) {
	var coll *playerkey.CollisionError
	if errors.As(err, &coll) {
		m.KeyCollisions.Inc()
	}
	log.WarnContext(ctx, "roster warning", "file", path, "err", err)
}

// record writes the run and its outcomes in one transaction.
func record(db *storage.DB, run model.RunSummary, sources []model.SourceRecord, picked []accepted) error {
	exists, err := db.RunExists(run.ID)
	if err != nil {
		return fmt.Errorf("check run: %w", err)
	}
	if exists {
		return fmt.Errorf("run %s already recorded", run.ID)
	}
	puzzles := make([]storage.PuzzleRecord, len(picked))
	for i, a := range picked {
		puzzles[i] = storage.PuzzleRecord{
			Summary: summarize(run.ID, a),
			Puzzle:  a.puzzle,
			Stats:   a.puzzle.MatchData.PlayerPerformances,
		}
	}
	if err := db.RecordRun(run, sources, puzzles); err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

func summarize(runID string, a accepted) model.PuzzleSummary {
	sc := a.puzzle.MatchData.Scorecard
	s := model.PuzzleSummary{
		SourceHash:    a.src.SourceHash,
		SourcePath:    a.src.SourcePath,
		PuzzleID:      a.puzzle.ID,
		TargetPlayer:  a.puzzle.TargetPlayer,
		Venue:         sc.Venue,
		MatchDate:     sc.Date,
		Season:        sc.Season,
		Winner:        sc.Winner,
		PlayerOfMatch: sc.PlayerOfMatch,
		RunID:         runID,
	}
	if len(sc.Teams) == 2 {
		s.Team1, s.Team2 = sc.Teams[0], sc.Teams[1]
	}
	return s
}
