package gate

import "context"

// Profile is a named set of permissions a user acts with.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
}

// ProfileResolver maps a subject to its profile. A nil profile with a nil
// error means the subject exists but has no access.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

// StaticProfile is an in-memory Profile.
type StaticProfile struct {
	name        string
	permissions map[Permission]struct{}
}

// NewStaticProfile builds a profile granting perms.
func NewStaticProfile(name string, perms ...Permission) *StaticProfile {
	p := &StaticProfile{name: name, permissions: make(map[Permission]struct{}, len(perms))}
	for _, perm := range perms {
		p.permissions[perm] = struct{}{}
	}
	return p
}

func (p *StaticProfile) Name() string { return p.name }

func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}
