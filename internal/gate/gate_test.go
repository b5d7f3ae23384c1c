package gate_test

import (
	"context"
	"testing"

	"github.com/diewo77/go-directory/internal/gate"
)

func newGate() *gate.Gate[uint] {
	r := newStaticResolver()
	r.Set(1, gate.NewStaticProfile("admin", gate.PermissionSuperAdmin))
	r.Set(2, gate.NewStaticProfile("moderator", "review:*", "enquiry:list"))
	return gate.New[uint](r)
}

func TestGate_ZeroUser(t *testing.T) {
	g := newGate()
	if err := g.Authorize(context.Background(), 0, gate.ActionList, "review", nil); err != gate.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_UnknownUser(t *testing.T) {
	g := newGate()
	if err := g.Authorize(context.Background(), 99, gate.ActionList, "review", nil); err != gate.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_ProfilePermissions(t *testing.T) {
	g := newGate()
	ctx := context.Background()
	tests := []struct {
		user     uint
		action   gate.Action
		resource string
		want     bool
	}{
		{1, gate.ActionDelete, "user", true},
		{2, gate.ActionDelete, "review", true},
		{2, gate.ActionList, "enquiry", true},
		{2, gate.ActionDelete, "enquiry", false},
		{2, gate.ActionCreate, "business", false},
	}
	for _, tt := range tests {
		if got := g.Authorize(ctx, tt.user, tt.action, tt.resource, nil) == nil; got != tt.want {
			t.Errorf("Authorize(%d, %s, %s) allowed = %v, want %v", tt.user, tt.action, tt.resource, got, tt.want)
		}
	}
}

func TestGate_PolicyAppliesToRecords(t *testing.T) {
	g := newGate()
	g.Register("user", gate.PolicyFunc[uint](func(_ context.Context, user uint, action gate.Action, resource any) bool {
		target, _ := resource.(uint)
		return action != gate.ActionDelete || target != user
	}))
	ctx := context.Background()
	if err := g.Authorize(ctx, 1, gate.ActionDelete, "user", uint(1)); err != gate.ErrForbidden {
		t.Fatalf("expected self delete to be forbidden, got %v", err)
	}
	if err := g.Authorize(ctx, 1, gate.ActionDelete, "user", uint(5)); err != nil {
		t.Fatalf("expected delete of another user to pass, got %v", err)
	}
	// without a record only the profile is consulted
	if err := g.Authorize(ctx, 1, gate.ActionDelete, "user", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
