package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemory_WindowResets(t *testing.T) {
	l := NewMemory(2, time.Minute)
	now := time.Now()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		if ok, _ := l.Allow(ctx, "1.2.3.4"); ok != want {
			t.Fatalf("call %d: got %v want %v", i, ok, want)
		}
	}
	if ok, _ := l.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatal("other clients have their own budget")
	}
	now = now.Add(time.Minute)
	if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatal("window should have reset")
	}
}

func TestMemory_Sweep(t *testing.T) {
	l := NewMemory(5, time.Minute)
	now := time.Now()
	l.now = func() time.Time { return now }
	l.Allow(context.Background(), "a")
	now = now.Add(2 * time.Minute)
	l.Allow(context.Background(), "b")
	l.Sweep()

	n := 0
	l.visitors.Range(func(k, v any) bool { n++; return true })
	if n != 1 {
		t.Fatalf("expected 1 live window, got %d", n)
	}
}

func TestRedis_Limit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	l := NewRedis(rdb, "login", 2, time.Minute)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "ip")
		if err != nil {
			t.Fatal(err)
		}
		if ok != want {
			t.Fatalf("call %d: got %v want %v", i, ok, want)
		}
	}
	if ttl := mr.TTL("rate_limit:login:ip"); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
	mr.FastForward(time.Minute + time.Second)
	if ok, _ := l.Allow(ctx, "ip"); !ok {
		t.Fatal("expected allow after expiry")
	}
}

func TestMiddleware(t *testing.T) {
	h := Middleware(NewMemory(1, time.Minute), time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("first request: %d", rr.Code)
	}

	req.RemoteAddr = "10.0.0.1:5001"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("missing Retry-After, got %q", rr.Header().Get("Retry-After"))
	}
}

type failing struct{}

func (failing) Allow(context.Context, string) (bool, error) { return false, context.DeadlineExceeded }

func TestMiddleware_FailOpen(t *testing.T) {
	h := Middleware(failing{}, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rr.Code)
	}
}
