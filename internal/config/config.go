package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the settings for a batch run.
type Config struct {
	MatchDir        string `yaml:"match_dir" validate:"required"`
	PlayersPath     string `yaml:"players_path" validate:"required"`
	PuzzlesPath     string `yaml:"puzzles_path" validate:"required"`
	DBPath          string `yaml:"db_path"`
	CountriesPath   string `yaml:"countries_path"`
	SampleSize      int    `yaml:"sample_size" validate:"min=1"`
	Seed            uint64 `yaml:"seed"` // 0 picks a time-based seed
	Workers         int    `yaml:"workers" validate:"min=1,max=64"`
	StartingID      int    `yaml:"starting_id" validate:"min=1"`
	MetricsTextfile string `yaml:"metrics_textfile"`
	LogLevel        string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat       string `yaml:"log_format" validate:"oneof=text json"`
}

// Default returns the settings used when no file or env var overrides them.
func Default() *Config {
	return &Config{
		MatchDir:    "./odi",
		PlayersPath: "./src/data/players.json",
		PuzzlesPath: "./src/data/match_puzzles.json",
		DBPath:      "cricpuzzle.db",
		SampleSize:  10,
		Workers:     4,
		StartingID:  201,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads the YAML file at path over the defaults, then applies
// CRICPUZZLE_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"CRICPUZZLE_MATCH_DIR":        &c.MatchDir,
		"CRICPUZZLE_PLAYERS_PATH":     &c.PlayersPath,
		"CRICPUZZLE_PUZZLES_PATH":     &c.PuzzlesPath,
		"CRICPUZZLE_DB_PATH":          &c.DBPath,
		"CRICPUZZLE_COUNTRIES_PATH":   &c.CountriesPath,
		"CRICPUZZLE_METRICS_TEXTFILE": &c.MetricsTextfile,
		"CRICPUZZLE_LOG_LEVEL":        &c.LogLevel,
		"CRICPUZZLE_LOG_FORMAT":       &c.LogFormat,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CRICPUZZLE_SAMPLE_SIZE": &c.SampleSize,
		"CRICPUZZLE_WORKERS":     &c.Workers,
		"CRICPUZZLE_STARTING_ID": &c.StartingID,
	}
	for name, dst := range ints {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", name, err)
		}
		*dst = n
	}

	if v := os.Getenv("CRICPUZZLE_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CRICPUZZLE_SEED value: %w", err)
		}
		c.Seed = n
	}
	return nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
