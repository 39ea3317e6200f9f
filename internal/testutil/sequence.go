package testutil

import "sync"

// Sequence hands out record IDs for the fake API. The first call to Next
// returns 1. Safe for concurrent use.
type Sequence struct {
	mu   sync.Mutex
	last int64
}

// Next increments and returns the next ID.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}

// Last returns the most recently issued ID, or 0.
func (s *Sequence) Last() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
