package otp

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestGenerate(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		n, err := strconv.Atoi(code)
		if err != nil || len(code) != 6 || n < 100000 || n > 999999 {
			t.Fatalf("bad code %q", code)
		}
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, 5*time.Minute, 3), mr
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	if ok, err := s.Verify(ctx, "nobody@dir.io", "123456"); ok || err != nil {
		t.Fatalf("verify absent: ok=%v err=%v", ok, err)
	}

	// one-time use
	if err := s.Put(ctx, "Admin@Dir.io", "111111"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if ok, _ := s.Verify(ctx, "admin@dir.io", "111111"); !ok {
		t.Fatal("expected match")
	}
	if ok, _ := s.Verify(ctx, "admin@dir.io", "111111"); ok {
		t.Fatal("code must not be reusable")
	}

	// replacement
	s.Put(ctx, "admin@dir.io", "222222")
	s.Put(ctx, "admin@dir.io", "333333")
	if ok, _ := s.Verify(ctx, "admin@dir.io", "222222"); ok {
		t.Fatal("replaced code must not verify")
	}
	if ok, _ := s.Verify(ctx, "admin@dir.io", "333333"); !ok {
		t.Fatal("latest code should verify")
	}

	// attempt limit (3 in these tests)
	s.Put(ctx, "admin@dir.io", "444444")
	for i := 0; i < 3; i++ {
		if ok, _ := s.Verify(ctx, "admin@dir.io", "000000"); ok {
			t.Fatal("wrong code verified")
		}
	}
	if ok, _ := s.Verify(ctx, "admin@dir.io", "444444"); ok {
		t.Fatal("entry should be gone after max attempts")
	}

	// delete
	s.Put(ctx, "admin@dir.io", "555555")
	if err := s.Delete(ctx, "admin@dir.io"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := s.Verify(ctx, "admin@dir.io", "555555"); ok {
		t.Fatal("deleted code verified")
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore(5*time.Minute, 3))
}

func TestRedisStore(t *testing.T) {
	s, _ := newRedisStore(t)
	storeContract(t, s)
}

func TestMemoryStore_ExpiryAndPurge(t *testing.T) {
	s := NewMemoryStore(time.Minute, 5)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	s.Put(ctx, "a@dir.io", "111111")
	s.Put(ctx, "b@dir.io", "222222")
	now = now.Add(2 * time.Minute)
	if ok, _ := s.Verify(ctx, "a@dir.io", "111111"); ok {
		t.Fatal("expired code verified")
	}
	s.Put(ctx, "c@dir.io", "333333")
	if n := s.Len(); n != 1 {
		t.Fatalf("expected expired entries purged, have %d", n)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()
	s.Put(ctx, "a@dir.io", "111111")
	if ttl := mr.TTL("otp:a@dir.io"); ttl != 5*time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
	mr.FastForward(6 * time.Minute)
	if ok, _ := s.Verify(ctx, "a@dir.io", "111111"); ok {
		t.Fatal("expired code verified")
	}
}

func TestMemoryStore_ConcurrentVerifySingleWinner(t *testing.T) {
	s := NewMemoryStore(time.Minute, 100)
	ctx := context.Background()
	s.Put(ctx, "a@dir.io", "777777")

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Verify(ctx, "a@dir.io", "777777"); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}
