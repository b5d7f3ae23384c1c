package otp

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

type entry struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu          sync.Mutex
	entries     map[string]*entry
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewMemoryStore(ttl time.Duration, maxAttempts int) *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]*entry),
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[normalize(email)] = &entry{code: code, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Verify(_ context.Context, email, code string) (bool, error) {
	key := normalize(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(e.code), []byte(code)) == 1 {
		delete(s.entries, key)
		return true, nil
	}
	e.attempts++
	if e.attempts >= s.maxAttempts {
		delete(s.entries, key)
	}
	return false, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.entries, normalize(email))
	s.mu.Unlock()
	return nil
}

// Len reports how many entries are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
