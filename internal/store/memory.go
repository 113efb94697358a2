package store

import (
	"context"
	"sync"

	"kidsbank/internal/engine"
)

// MemoryStore keeps snapshots in a map. Used by tests and the no-database
// dev mode; safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	snaps map[string]engine.Snapshot

	// FailSaves makes every Save return an error, for exercising the
	// service's rollback path in tests.
	FailSaves error
}

func NewMemory() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]engine.Snapshot)}
}

func (m *MemoryStore) Load(ctx context.Context, accountID string) (engine.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[accountID]
	if !ok {
		return engine.Snapshot{}, ErrNotFound
	}
	return snap.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, accountID string, snap engine.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves != nil {
		return m.FailSaves
	}
	m.snaps[accountID] = snap.Clone()
	return nil
}

func (m *MemoryStore) ListAccounts(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.snaps))
	for id := range m.snaps {
		out = append(out, id)
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
