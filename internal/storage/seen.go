package storage

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// SeenFilter answers "was this match already turned into a puzzle?". A bloom
// filter rejects most new hashes without touching SQLite; positives are
// confirmed with an exact lookup. Safe for concurrent use.
type SeenFilter struct {
	db *DB

	mu    sync.Mutex
	bf    *bloom.BloomFilter
	added map[string]bool // hashes added since load, not yet in SQLite
}

// NewSeenFilter loads every accepted source hash into a fresh filter sized
// for at least expected more entries.
func (db *DB) NewSeenFilter(expected int) (*SeenFilter, error) {
	hashes, err := db.AcceptedSourceHashes()
	if err != nil {
		return nil, fmt.Errorf("load source hashes: %w", err)
	}
	n := uint(len(hashes) + expected)
	if n < 1000 {
		n = 1000
	}
	bf := bloom.NewWithEstimates(n, 0.01)
	for _, h := range hashes {
		bf.AddString(h)
	}
	return &SeenFilter{db: db, bf: bf, added: make(map[string]bool)}, nil
}

// Seen reports whether hash belongs to an accepted source.
func (f *SeenFilter) Seen(hash string) (bool, error) {
	f.mu.Lock()
	maybe, added := f.bf.TestString(hash), f.added[hash]
	f.mu.Unlock()
	if !maybe {
		return false, nil
	}
	if added {
		return true, nil
	}
	return f.db.SourceExists(hash)
}

// Add marks hash as seen for the lifetime of the filter.
func (f *SeenFilter) Add(hash string) {
	f.mu.Lock()
	f.bf.AddString(hash)
	f.added[hash] = true
	f.mu.Unlock()
}
