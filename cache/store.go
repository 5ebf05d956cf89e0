package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// entry 是缓存条目：记录数据、创建时间与TTL
type entry struct {
	data      json.RawMessage
	createdAt time.Time
	ttl       time.Duration
}

// expired reports whether the entry is stale at the given instant. A
// positive maxAge overrides the entry's own TTL.
func (e entry) expired(now time.Time, maxAge time.Duration) bool {
	effective := e.ttl
	if maxAge > 0 {
		effective = maxAge
	}
	return now.Sub(e.createdAt) > effective
}

// Store is the in-process cache tier: one shared instance per process,
// constructed at the composition root and handed to every Service that
// needs it. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewStore creates an empty in-process store.
func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

func (s *Store) get(key string) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

func (s *Store) set(key string, e entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
}

func (s *Store) delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}
