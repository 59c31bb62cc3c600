package game

import "sync"

// Store owns the single live match. The match is reconstructed from
// scratch by the engine itself (second join with nothing dealt re-deals),
// so the store only has to hand out the one instance, creating it lazily
// with the server's configuration.
type Store struct {
	mu      sync.Mutex
	current *Match
	factory func() *Match
}

func NewStore(factory func() *Match) *Store {
	return &Store{factory: factory}
}

// Current returns the live match, creating it on first use.
func (s *Store) Current() *Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		s.current = s.factory()
	}
	return s.current
}
