// Package ratelimit caps requests per client in fixed windows.
package ratelimit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/redis/go-redis/v9"
)

// Limiter reports whether one more request under key fits the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Redis counts with INCR and lets EXPIRE close the window, so every server
// instance shares the same budget.
type Redis struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedis(rdb *redis.Client, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: "rate_limit:" + prefix + ":", limit: int64(limit), window: window}
}

func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= l.limit, nil
}

type window struct {
	mu    sync.Mutex
	start time.Time
	count int
}

// Memory is a process-local Limiter.
type Memory struct {
	visitors sync.Map
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewMemory(limit int, win time.Duration) *Memory {
	return &Memory{limit: limit, window: win, now: time.Now}
}

func (l *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	v, _ := l.visitors.LoadOrStore(key, &window{start: now})
	w := v.(*window)
	w.mu.Lock()
	defer w.mu.Unlock()
	if now.Sub(w.start) >= l.window {
		w.start = now
		w.count = 0
	}
	w.count++
	return w.count <= l.limit, nil
}

// Sweep drops windows that have closed.
func (l *Memory) Sweep() {
	now := l.now()
	l.visitors.Range(func(k, v any) bool {
		w := v.(*window)
		w.mu.Lock()
		stale := now.Sub(w.start) >= l.window
		w.mu.Unlock()
		if stale {
			l.visitors.Delete(k)
		}
		return true
	})
}

// Janitor sweeps every interval until ctx is done.
func (l *Memory) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep()
		}
	}
}

// ClientIP returns the host part of the request's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects requests over the limit with 429. A failing limiter
// lets the request through.
func Middleware(l Limiter, window time.Duration) func(http.Handler) http.Handler {
	retry := strconv.Itoa(int(window.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			ok, err := l.Allow(r.Context(), ip)
			if err != nil {
				slog.Error("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", retry)
				httpx.JSONError(w, http.StatusTooManyRequests, "too_many_requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
