package registry

import (
	"context"
	"sync"
	"time"

	"github.com/structlab/structlab/pkg/observability"
)

// MemoryStore keeps fragments in an in-process map. Expiry is checked
// lazily on access; Cleanup sweeps the whole map.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	frag      Fragment
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Put stores a fragment under token.
func (s *MemoryStore) Put(ctx context.Context, token string, frag Fragment, ttl time.Duration) error {
	entry := memoryEntry{frag: frag}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = entry
	return nil
}

// Get retrieves a fragment without consuming the token.
func (s *MemoryStore) Get(ctx context.Context, token string) (Fragment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok {
		return Fragment{}, false, nil
	}
	if entry.expired(time.Now()) {
		delete(s.entries, token)
		observability.Registry().OnExpire(ctx, string(entry.frag.Kind))
		return Fragment{}, false, nil
	}
	return entry.frag, true, nil
}

// Remove atomically removes and returns the fragment for token.
func (s *MemoryStore) Remove(ctx context.Context, token string) (Fragment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok {
		return Fragment{}, false, nil
	}
	delete(s.entries, token)
	if entry.expired(time.Now()) {
		observability.Registry().OnExpire(ctx, string(entry.frag.Kind))
		return Fragment{}, false, nil
	}
	return entry.frag, true, nil
}

// Cleanup removes every expired entry.
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.entries {
		if entry.expired(now) {
			delete(s.entries, token)
			observability.Registry().OnExpire(ctx, string(entry.frag.Kind))
		}
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
