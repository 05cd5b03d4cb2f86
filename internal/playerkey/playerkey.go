// Package playerkey derives canonical player identifiers from free-text names.
package playerkey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pable/go-cricket-puzzles/internal/model"
)

// ErrEmptyKey is returned when a name holds no ASCII letters at all.
var ErrEmptyKey = errors.New("player name normalizes to an empty key")

// Normalize keeps the ASCII letters of name and upper-cases them.
// "V Kohli" and "V. Kohli" both become "VKOHLI".
func Normalize(name string) model.PlayerKey {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	return model.PlayerKey(b.String())
}

// CollisionError reports two different full names sharing one key.
type CollisionError struct {
	Key      model.PlayerKey
	Existing string
	Incoming string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("player key %s collision: %q and %q", e.Key, e.Existing, e.Incoming)
}

// Registry remembers which full name produced each key so collisions can be
// surfaced instead of silently merging two players.
type Registry struct {
	names map[model.PlayerKey]string
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[model.PlayerKey]string)}
}

// Add normalizes name and records it. On collision the incoming name replaces
// the existing one and a *CollisionError is returned alongside the key.
func (r *Registry) Add(name string) (model.PlayerKey, error) {
	key := Normalize(name)
	if key == "" {
		return "", fmt.Errorf("%q: %w", name, ErrEmptyKey)
	}
	prev, seen := r.names[key]
	r.names[key] = name
	if seen && prev != name {
		return key, &CollisionError{Key: key, Existing: prev, Incoming: name}
	}
	return key, nil
}

func (r *Registry) Len() int {
	return len(r.names)
}
