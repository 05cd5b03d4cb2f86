package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-puzzles/internal/metrics"
	"github.com/pable/go-cricket-puzzles/internal/pipeline"
	"github.com/pable/go-cricket-puzzles/internal/report"
	"github.com/pable/go-cricket-puzzles/internal/storage"
)

var (
	buildDir     string
	buildSample  int
	buildSeed    uint64
	buildWorkers int
	buildNoDB    bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Sample match files and merge new puzzles into the stores",
	Long: `Scan the match directory, collect every listed player into the players
store, convert a random sample of matches into puzzles and interleave them
with the existing puzzle store. Matches already turned into puzzles by an
earlier run are skipped.

Example:
  cricpuzzle build --dir ./odi --sample 20 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildDir, "dir", "", "match directory (default from config)")
	buildCmd.Flags().IntVar(&buildSample, "sample", 0, "number of matches to convert (default from config)")
	buildCmd.Flags().Uint64Var(&buildSeed, "seed", 0, "random seed for sampling and trivia; 0 picks one")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "parallel file loaders (default from config)")
	buildCmd.Flags().BoolVar(&buildNoDB, "no-db", false, "do not record the run or skip already ingested matches")
}

func runBuild(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.MatchDir = buildDir
	}
	if flags.Changed("sample") {
		cfg.SampleSize = buildSample
	}
	if flags.Changed("seed") {
		cfg.Seed = buildSeed
	}
	if flags.Changed("workers") {
		cfg.Workers = buildWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := pipeline.Options{
		Config:  cfg,
		Logger:  slog.Default(),
		Metrics: metrics.New(),
	}
	if !buildNoDB {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()
		opts.DB = db
	}

	rep, err := pipeline.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	report.PrintRunReport(os.Stdout, rep.Run, rep.Failures)
	return nil
}
