package gate

import (
	"context"
	"sync"
	"time"
)

// CachedResolver memoizes another resolver for ttl. Negative results
// (nil profile) are cached too, so revoked users do not hit the database
// on every request.
type CachedResolver[U comparable] struct {
	inner ProfileResolver[U]
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	cache map[U]cacheEntry
}

type cacheEntry struct {
	profile   Profile
	expiresAt time.Time
}

// NewCachedResolver wraps inner with a TTL cache.
func NewCachedResolver[U comparable](inner ProfileResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{inner: inner, ttl: ttl, now: time.Now, cache: make(map[U]cacheEntry)}
}

func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	now := r.now()
	r.mu.RLock()
	e, ok := r.cache[user]
	r.mu.RUnlock()
	if ok && now.Before(e.expiresAt) {
		return e.profile, nil
	}

	p, err := r.inner.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[user] = cacheEntry{profile: p, expiresAt: now.Add(r.ttl)}
	// drop stale entries while holding the lock
	for k, v := range r.cache {
		if !now.Before(v.expiresAt) {
			delete(r.cache, k)
		}
	}
	r.mu.Unlock()
	return p, nil
}

// Invalidate forgets one subject, e.g. after a role change or delete.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.mu.Lock()
	delete(r.cache, user)
	r.mu.Unlock()
}
