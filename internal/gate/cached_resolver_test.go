package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/go-directory/internal/gate"
)

type countingResolver struct {
	inner *staticResolver
	calls int
}

func (c *countingResolver) Resolve(ctx context.Context, user uint) (gate.Profile, error) {
	c.calls++
	return c.inner.Resolve(ctx, user)
}

func TestCachedResolver_CachesProfile(t *testing.T) {
	inner := &countingResolver{inner: newStaticResolver()}
	inner.inner.Set(1, gate.NewStaticProfile("USER"))
	cached := gate.NewCachedResolver[uint](inner, 5*time.Minute)

	p1, err := cached.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner.inner.Set(1, gate.NewStaticProfile("ADMIN", gate.PermissionSuperAdmin))
	p2, _ := cached.Resolve(context.Background(), 1)
	if p1.Name() != "USER" || p2.Name() != "USER" {
		t.Fatalf("expected cached USER profile, got %s then %s", p1.Name(), p2.Name())
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestCachedResolver_CachesMissingProfile(t *testing.T) {
	inner := &countingResolver{inner: newStaticResolver()}
	cached := gate.NewCachedResolver[uint](inner, time.Minute)
	for i := 0; i < 3; i++ {
		if p, _ := cached.Resolve(context.Background(), 7); p != nil {
			t.Fatalf("expected nil profile, got %v", p)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestCachedResolver_Invalidate(t *testing.T) {
	inner := newStaticResolver()
	inner.Set(1, gate.NewStaticProfile("USER"))
	inner.Set(2, gate.NewStaticProfile("USER"))
	cached := gate.NewCachedResolver[uint](inner, 5*time.Minute)
	_, _ = cached.Resolve(context.Background(), 1)
	_, _ = cached.Resolve(context.Background(), 2)

	inner.Set(1, gate.NewStaticProfile("ADMIN"))
	inner.Set(2, gate.NewStaticProfile("ADMIN"))
	cached.Invalidate(1)

	p1, _ := cached.Resolve(context.Background(), 1)
	p2, _ := cached.Resolve(context.Background(), 2)
	if p1.Name() != "ADMIN" {
		t.Errorf("expected ADMIN after invalidation, got %s", p1.Name())
	}
	if p2.Name() != "USER" {
		t.Errorf("expected user 2 still cached, got %s", p2.Name())
	}
}

func TestCachedResolver_Expiry(t *testing.T) {
	inner := &countingResolver{inner: newStaticResolver()}
	inner.inner.Set(1, gate.NewStaticProfile("USER"))
	cached := gate.NewCachedResolver[uint](inner, 10*time.Millisecond)
	_, _ = cached.Resolve(context.Background(), 1)
	time.Sleep(20 * time.Millisecond)
	_, _ = cached.Resolve(context.Background(), 1)
	if inner.calls != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", inner.calls)
	}
}
