// Package gate is the authorization checkpoint of the directory API.
// A user resolves to a Profile (derived from the account role) whose
// permissions are checked as "resource:action"; resource types may add a
// Policy for checks that depend on the concrete record.
package gate

import "context"

// Gate combines profile permissions with per-resource policies.
// U is the subject type (uint user ids in this application).
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

// New creates a gate backed by resolver.
func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver, policies: make(map[string]Policy[U])}
}

// Register attaches a record-level policy to a resource type,
// replacing any previous one.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Profile resolves the subject's profile. A zero subject or a subject
// without a profile yields ErrUnauthorized.
func (g *Gate[U]) Profile(ctx context.Context, user U) (Profile, error) {
	var zero U
	if user == zero {
		return nil, ErrUnauthorized
	}
	p, err := g.resolver.Resolve(ctx, user)
	if err != nil || p == nil {
		return nil, ErrUnauthorized
	}
	return p, nil
}

// Authorize returns nil when user may perform action on resourceType.
// When resource is non-nil and a policy is registered for the type, the
// policy must also allow it, otherwise ErrForbidden is returned.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	p, err := g.Profile(ctx, user)
	if err != nil {
		return err
	}
	if !p.HasPermission(NewPermission(resourceType, action)) {
		return ErrForbidden
	}
	if resource == nil {
		return nil
	}
	if pol, ok := g.policies[resourceType]; ok && !pol.Can(ctx, user, action, resource) {
		return ErrForbidden
	}
	return nil
}

// Policy holds record-level rules for one resource type.
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, resource any) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc[U any] func(ctx context.Context, user U, action Action, resource any) bool

func (f PolicyFunc[U]) Can(ctx context.Context, user U, action Action, resource any) bool {
	return f(ctx, user, action, resource)
}
