package cursor

import (
	"context"
	"sync"
	"time"
)

// Store persists the last instant a cursor emitted, per key.
type Store interface {
	// Load returns the stored instant for key, or false if none is stored.
	Load(ctx context.Context, key string) (time.Time, bool, error)

	// Save records t for key. Instants not later than the stored one are
	// ignored, so a checkpoint never moves backwards.
	Save(ctx context.Context, key string, t time.Time) error
}

// MemoryStore is a Store backed by a map. It is safe for concurrent use and
// forgets everything when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	marks map[string]time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{marks: make(map[string]time.Time)}
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context, key string) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.marks[key]
	return t, ok, nil
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, key string, t time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.marks[key]; ok && !t.After(prev) {
		return nil
	}
	m.marks[key] = t
	return nil
}
