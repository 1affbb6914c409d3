package payloadstore

import (
	"context"
	"sync"
	"time"

	"github.com/docenthq/docent/internal/core"
	"github.com/docenthq/docent/internal/models"
)

// DefaultTTL is how long a stream payload stays retrievable.
const DefaultTTL = 120 * time.Second

// MemoryStore is the process-local payload store. Eviction is lazy: every Set
// and Get sweeps expired entries first, so no background timer is needed and
// the store is safe inside short-lived execution contexts.
//
// It does not synchronize across service instances; a stream initiated on one
// instance and consumed from another will miss. Callers carry the payload
// inline as the fallback transport for that deployment shape.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	payload  *models.StreamPayload
	storedAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Set(_ context.Context, id string, payload *models.StreamPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.entries[id] = memoryEntry{payload: payload, storedAt: s.now()}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.StreamPayload, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	e, ok := s.entries[id]
	if !ok {
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// sweep drops every entry older than the TTL. Caller holds the lock.
func (s *MemoryStore) sweep() {
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.entries {
		if e.storedAt.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}

var _ core.PayloadStore = (*MemoryStore)(nil)
