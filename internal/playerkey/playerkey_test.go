package playerkey

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/pable/go-cricket-puzzles/internal/model"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		want model.PlayerKey
	}{
		{"V Kohli", "VKOHLI"},
		{"V. Kohli", "VKOHLI"},
		{"MS Dhoni", "MSDHONI"},
		{"AB de Villiers", "ABDEVILLIERS"},
		{"Mohammed Shami", "MOHAMMEDSHAMI"},
		{"Shaheen Shah Afridi (c)", "SHAHEENSHAHAFRIDIC"},
		{"D'Arcy Short", "DARCYSHORT"},
		{"Player 11", "PLAYER"},
		{"José Buttler", "JOSBUTTLER"},
		{"", ""},
		{"  12-34 . ", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.name); got != c.want {
			t.Errorf("Normalize(%q): want %q, got %q", c.name, c.want, got)
		}
	}
}

// TestNormalize_Idempotent: normalizing a key again yields the same key.
func TestNormalize_Idempotent(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		name := f.Name()
		once := Normalize(name)
		twice := Normalize(string(once))
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", name, once, twice)
		}
		if once != Normalize(name) {
			t.Fatalf("Normalize not deterministic for %q", name)
		}
	}
}

func TestRegistry_Collision(t *testing.T) {
	r := NewRegistry()

	k1, err := r.Add("V Kohli")
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	// Same name twice is not a collision.
	if _, err := r.Add("V Kohli"); err != nil {
		t.Errorf("re-adding the same name should not collide: %v", err)
	}

	k2, err := r.Add("V. Kohli")
	if k1 != k2 {
		t.Fatalf("expected same key, got %q and %q", k1, k2)
	}
	var ce *CollisionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CollisionError, got %v", err)
	}
	if ce.Existing != "V Kohli" || ce.Incoming != "V. Kohli" {
		t.Errorf("collision names: got %q / %q", ce.Existing, ce.Incoming)
	}
	// Last write wins: the next collision reports the newer name as existing.
	_, err = r.Add("V Kohli")
	if !errors.As(err, &ce) || ce.Existing != "V. Kohli" {
		t.Errorf("expected last registered name to win, got %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 key, got %d", r.Len())
	}
}

func TestRegistry_EmptyKey(t *testing.T) {
	r := NewRegistry()
	key, err := r.Add("123 .")
	if !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
	if key != "" {
		t.Errorf("expected empty key, got %q", key)
	}
	if r.Len() != 0 {
		t.Errorf("empty keys must not be registered")
	}
}
