package artifact

import (
	"sync"
)

// DefaultCapacity bounds the in-memory store when no explicit capacity is
// configured.
const DefaultCapacity = 512

// Store is a capacity-bounded in-memory artifact map. When full, inserting
// a new artifact evicts the oldest one. A capacity of zero or below means
// unbounded. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	capacity int
	items    map[string]*Artifact
	order    []string
}

// NewStore builds a Store holding at most capacity artifacts.
func NewStore(capacity int) *Store {
	return &Store{
		capacity: capacity,
		items:    make(map[string]*Artifact),
	}
}

// Put stores an artifact under its ID, replacing any existing entry with
// the same ID without affecting its age for eviction purposes.
func (s *Store) Put(a *Artifact) {
	if a == nil || a.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[a.ID]; !exists {
		if s.capacity > 0 && len(s.order) >= s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.items, oldest)
		}
		s.order = append(s.order, a.ID)
	}
	s.items[a.ID] = a.Clone()
}

// Get returns a copy of the artifact with the given ID, or false when the
// ID is unknown or has been evicted.
func (s *Store) Get(id string) (*Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Len reports the number of artifacts currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
