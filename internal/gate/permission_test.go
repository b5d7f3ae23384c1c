package gate_test

import (
	"testing"

	"github.com/diewo77/go-directory/internal/gate"
)

func TestPermission_Parse(t *testing.T) {
	res, act := gate.Permission("business:update").Parse()
	if res != "business" || act != gate.ActionUpdate {
		t.Fatalf("unexpected parse %q %q", res, act)
	}
	for _, bad := range []gate.Permission{"invalid", ":list", "user:"} {
		if res, act := bad.Parse(); res != "" || act != "" {
			t.Errorf("Parse(%q) = %q, %q; want empty", bad, res, act)
		}
	}
}

func TestPermission_Matches(t *testing.T) {
	tests := []struct {
		have, want gate.Permission
		ok         bool
	}{
		{"category:create", "category:create", true},
		{"category:create", "category:delete", false},
		{"category:*", "category:delete", true},
		{"category:*", "business:delete", false},
		{"*:list", "enquiry:list", true},
		{"*:list", "enquiry:delete", false},
		{gate.PermissionSuperAdmin, "settings:update", true},
		{"broken", "broken", true},
		{"broken", "category:list", false},
	}
	for _, tt := range tests {
		if got := tt.have.Matches(tt.want); got != tt.ok {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.have, tt.want, got, tt.ok)
		}
	}
}
