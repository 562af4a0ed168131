package stripekit

import "sync"

// Store records the IDs of webhook events that have been handled. Stripe
// retries webhook delivery, so handlers use a Store to drop events they have
// already seen.
type Store interface {
	// LogEvent will store the given event ID in the underlying store. If the
	// given event ID already exists, then this will return ErrEventExists.
	LogEvent(id string) error
}

// MemStore is an in-memory Store. It is good enough for a single process,
// use PSQL when webhook handling is spread across more than one.
type MemStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		seen: make(map[string]struct{}),
	}
}

func (s *MemStore) LogEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return ErrEventExists
	}
	s.seen[id] = struct{}{}
	return nil
}
