// Package metrics counts what a batch run did. Counters live on a private
// registry and are exported as a node_exporter textfile, since a batch job
// has no scrape endpoint.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cricpuzzle"

// Metrics holds the counters for one process.
type Metrics struct {
	Registry *prometheus.Registry

	FilesLoaded       prometheus.Counter
	FilesFailed       prometheus.Counter
	PuzzlesConverted  prometheus.Counter
	PuzzlesAccepted   prometheus.Counter
	Rejections        *prometheus.CounterVec
	PlayersDiscovered prometheus.Counter
	KeyCollisions     prometheus.Counter
	RunDuration       prometheus.Gauge
}

// New creates the counters and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FilesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_loaded_total",
			Help:      "Match files decoded successfully.",
		}),
		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_failed_total",
			Help:      "Match files that could not be read or decoded.",
		}),
		PuzzlesConverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "puzzles_converted_total",
			Help:      "Sampled matches that produced a puzzle.",
		}),
		PuzzlesAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "puzzles_accepted_total",
			Help:      "Puzzles that passed validation.",
		}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_rejected_total",
			Help:      "Sampled matches skipped, by reason.",
		}, []string{"reason"}),
		PlayersDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_discovered_total",
			Help:      "Distinct players found across all rosters.",
		}),
		KeyCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "player_key_collisions_total",
			Help:      "Different full names that normalized to the same key.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last batch run.",
		}),
	}
	m.Registry.MustRegister(
		m.FilesLoaded, m.FilesFailed,
		m.PuzzlesConverted, m.PuzzlesAccepted, m.Rejections,
		m.PlayersDiscovered, m.KeyCollisions, m.RunDuration,
	)
	return m
}

// WriteTextfile writes every registered metric to path in the text
// exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
