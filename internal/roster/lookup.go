// Package roster collects every player named in a set of matches and enriches
// them with country, flag and alias data for the players store.
package roster

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var defaultCountries []byte

// Lookup maps a team name to its country and a country to its flag.
type Lookup struct {
	DefaultFlag string            `yaml:"default_flag"`
	Countries   map[string]string `yaml:"countries"`
	Flags       map[string]string `yaml:"flags"`
}

// DefaultLookup returns the embedded international team table.
func DefaultLookup() *Lookup {
	l, err := parseLookup(defaultCountries)
	if err != nil {
		panic(fmt.Sprintf("embedded countries.yaml: %v", err))
	}
	return l
}

// LoadLookup reads a lookup table from path. An empty path returns the
// embedded default.
func LoadLookup(path string) (*Lookup, error) {
	if path == "" {
		return DefaultLookup(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read countries file: %w", err)
	}
	l, err := parseLookup(data)
	if err != nil {
		return nil, fmt.Errorf("parse countries file %s: %w", path, err)
	}
	return l, nil
}

func parseLookup(data []byte) (*Lookup, error) {
	var l Lookup
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	if l.DefaultFlag == "" {
		l.DefaultFlag = "🏳️"
	}
	return &l, nil
}

// Country returns the country a team plays for; unknown teams (franchises,
// clubs) are their own country.
func (l *Lookup) Country(team string) string {
	if c, ok := l.Countries[team]; ok {
		return c
	}
	return team
}

// Flag returns the flag for country, or DefaultFlag.
func (l *Lookup) Flag(country string) string {
	if f, ok := l.Flags[country]; ok {
		return f
	}
	return l.DefaultFlag
}
