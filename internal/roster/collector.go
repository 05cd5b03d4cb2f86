package roster

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pable/go-cricket-puzzles/internal/model"
	"github.com/pable/go-cricket-puzzles/internal/playerkey"
)

// Sink receives every roster entry seen while scanning matches.
type Sink interface {
	// ObserveMatch records every listed player of m. It returns one error per
	// rejected or colliding name; none of them stop the scan.
	ObserveMatch(m *model.MatchRecord) []error
	Observe(team, fullName string) error
	// Players returns the profiles collected so far.
	Players() map[model.PlayerKey]model.PlayerProfile
	Len() int
}

var _ Sink = (*Collector)(nil)

// Collector is a Sink that builds PlayerProfiles. The first full name seen for
// a key is kept; later teams are appended. Safe for concurrent use.
type Collector struct {
	lookup *Lookup

	mu      sync.Mutex
	players map[model.PlayerKey]*model.PlayerProfile
}

func NewCollector(lookup *Lookup) *Collector {
	if lookup == nil {
		lookup = DefaultLookup()
	}
	return &Collector{
		lookup:  lookup,
		players: make(map[model.PlayerKey]*model.PlayerProfile),
	}
}

func (c *Collector) ObserveMatch(m *model.MatchRecord) []error {
	if m == nil || m.Info == nil {
		return nil
	}
	teams := make([]string, 0, len(m.Info.Players))
	for team := range m.Info.Players {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	var errs []error
	for _, team := range teams {
		for _, name := range m.Info.Players[team] {
			if err := c.Observe(team, name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// Observe adds fullName playing for team. A name whose key is already held by
// a different full name is merged into that profile and reported as a
// *playerkey.CollisionError.
func (c *Collector) Observe(team, fullName string) error {
	key := playerkey.Normalize(fullName)
	if key == "" {
		return fmt.Errorf("%q: %w", fullName, playerkey.ErrEmptyKey)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.players[key]
	if !ok {
		country := c.lookup.Country(team)
		c.players[key] = &model.PlayerProfile{
			FullName:    fullName,
			Country:     country,
			CountryFlag: c.lookup.Flag(country),
			Teams:       []string{team},
			Aliases:     Aliases(fullName),
		}
		return nil
	}
	p.Teams = appendMissing(p.Teams, team)
	if p.FullName != fullName {
		return &playerkey.CollisionError{Key: key, Existing: p.FullName, Incoming: fullName}
	}
	return nil
}

// Players returns a snapshot of the collected profiles.
func (c *Collector) Players() map[model.PlayerKey]model.PlayerProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[model.PlayerKey]model.PlayerProfile, len(c.players))
	for k, p := range c.players {
		cp := *p
		cp.Teams = append([]string(nil), p.Teams...)
		cp.Aliases = append([]string(nil), p.Aliases...)
		out[k] = cp
	}
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.players)
}

// Aliases returns the alternative spellings a player might be guessed by:
// surname, initials plus surname, and the name without dots. Sorted and
// deduplicated.
func Aliases(fullName string) []string {
	var out []string
	parts := strings.Fields(fullName)
	if len(parts) > 1 {
		surname := parts[len(parts)-1]
		var initials strings.Builder
		for _, p := range parts[:len(parts)-1] {
			r := []rune(p)
			initials.WriteRune(r[0])
		}
		out = append(out, surname, initials.String()+" "+surname)
	}
	if clean := strings.ReplaceAll(fullName, ".", ""); clean != fullName {
		out = append(out, clean)
	}

	sort.Strings(out)
	uniq := out[:0]
	for i, a := range out {
		if i == 0 || a != out[i-1] {
			uniq = append(uniq, a)
		}
	}
	if uniq == nil {
		return []string{}
	}
	return uniq
}

// Merge folds incoming into existing. New keys are added; existing players
// gain any teams they were missing. Names, countries and aliases already on
// file are left alone.
func Merge(existing, incoming map[model.PlayerKey]model.PlayerProfile) (added, updated int) {
	keys := make([]model.PlayerKey, 0, len(incoming))
	for k := range incoming {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		in := incoming[k]
		cur, ok := existing[k]
		if !ok {
			existing[k] = in
			added++
			continue
		}
		before := len(cur.Teams)
		teams := append([]string(nil), cur.Teams...)
		for _, t := range in.Teams {
			teams = appendMissing(teams, t)
		}
		if len(teams) > before {
			cur.Teams = teams
			existing[k] = cur
			updated++
		}
	}
	return added, updated
}

func appendMissing(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
