package store

import "sync"

// MemoryStore keeps the log in process memory. It backs the mock data
// path and tests; contents are lost on restart.
type MemoryStore struct {
	mu     sync.Mutex
	events []Interaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ev Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *MemoryStore) ReadAll() []Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Interaction, len(s.events))
	copy(out, s.events)
	return out
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	return nil
}

func (s *MemoryStore) Close() error { return nil }
