package archive

import (
	"context"
	"sort"
	"sync"

	"github.com/structlab/structlab/pkg/errors"
)

// MemoryStore keeps archive entries in process memory. Useful for tests
// and single-process runs without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory archive store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Save stores the entry, replacing any previous one of the same name.
func (m *MemoryStore) Save(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Name] = e
	return nil
}

// Load retrieves an entry by name.
func (m *MemoryStore) Load(ctx context.Context, name string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	if !ok {
		return Entry{}, errors.New(errors.ErrCodeArchiveNotFound, "archive %q not found", name)
	}
	return e, nil
}

// List returns the stored names in lexical order.
func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes an entry by name.
func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[name]; !ok {
		return errors.New(errors.ErrCodeArchiveNotFound, "archive %q not found", name)
	}
	delete(m.entries, name)
	return nil
}

// Close does nothing.
func (m *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
