package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	id        Identity
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// lazily on Resolve and in bulk by Sweep.
type MemoryStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]memEntry
	now  func() time.Time
}

// NewMemoryStore returns an empty store. A ttl of zero keeps sessions until
// they are revoked.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:  ttl,
		data: make(map[string]memEntry),
		now:  time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, id Identity) (string, error) {
	tok, err := newToken()
	if err != nil {
		return "", err
	}
	e := memEntry{id: id}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.data[tok] = e
	s.mu.Unlock()
	return tok, nil
}

func (s *MemoryStore) Resolve(_ context.Context, token string) (Identity, bool, error) {
	if token == "" {
		return Identity{}, false, nil
	}

	s.mu.RLock()
	e, ok := s.data[token]
	s.mu.RUnlock()
	if !ok {
		return Identity{}, false, nil
	}

	if e.expired(s.now()) {
		s.mu.Lock()
		delete(s.data, token)
		s.mu.Unlock()
		return Identity{}, false, nil
	}
	return e.id, true, nil
}

func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.data, token)
	s.mu.Unlock()
	return nil
}

// Sweep removes every entry expired at now and returns how many went.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for tok, e := range s.data {
		if e.expired(now) {
			delete(s.data, tok)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is cancelled.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(s.now())
		}
	}
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
