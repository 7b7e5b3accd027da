package resolve

import "sync"

// SyntheticIDBase is the first identifier handed out for externally sourced
// items; anything below it belongs to the local store.
const SyntheticIDBase = 10001

// SyntheticIDs assigns process-lifetime identifiers to items produced by the
// external tier so a later purchase can resolve them by ID. The mapping is
// memory only and is lost on restart.
type SyntheticIDs struct {
	mu    sync.Mutex
	next  int64
	names map[int64]string
}

// NewSyntheticIDs creates an empty mapping.
func NewSyntheticIDs() *SyntheticIDs {
	return &SyntheticIDs{next: SyntheticIDBase, names: make(map[int64]string)}
}

// Assign records a display name under the next free ID and returns the ID.
func (s *SyntheticIDs) Assign(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.names[id] = name
	return id
}

// Lookup resolves a previously assigned ID to its display name.
func (s *SyntheticIDs) Lookup(id int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.names[id]
	return name, ok
}
