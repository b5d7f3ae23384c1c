package gate_test

import (
	"context"

	"github.com/diewo77/go-directory/internal/gate"
)

// staticResolver maps user ids to fixed profiles.
type staticResolver struct {
	profiles map[uint]gate.Profile
}

func newStaticResolver() *staticResolver {
	return &staticResolver{profiles: make(map[uint]gate.Profile)}
}

func (r *staticResolver) Set(user uint, p gate.Profile) { r.profiles[user] = p }

func (r *staticResolver) Resolve(_ context.Context, user uint) (gate.Profile, error) {
	return r.profiles[user], nil
}
