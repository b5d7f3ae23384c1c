package policy

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/diewo77/go-directory/internal/auth"
	"github.com/diewo77/go-directory/internal/gate"
	"github.com/diewo77/go-directory/internal/httpx"
	"gorm.io/gorm"
)

// AuthGate is the application's authorization entry point.
type AuthGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewAuthGate wires the role resolver behind a TTL cache and registers the
// record-level policies.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](NewDBRoleResolver(db), cacheTTL)
	g := gate.New[uint](cached)
	g.Register("user", gate.PolicyFunc[uint](noSelfDelete))
	return &AuthGate{Gate: g, CacheResolver: cached}
}

// noSelfDelete keeps an admin from deleting the account their session runs on.
func noSelfDelete(_ context.Context, actor uint, action gate.Action, resource any) bool {
	target, ok := resource.(uint)
	return !ok || action != gate.ActionDelete || target != actor
}

// Authorize checks the current session user against resourceType:action.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, uid, action, resourceType, resource)
}

// IsAdmin reports whether the user resolves to the superadmin profile.
func (ag *AuthGate) IsAdmin(ctx context.Context, userID uint) bool {
	p, err := ag.Gate.Profile(ctx, userID)
	return err == nil && p.HasPermission(gate.PermissionSuperAdmin)
}

// InvalidateUser drops the cached profile after a role change or delete.
func (ag *AuthGate) InvalidateUser(userID uint) { ag.CacheResolver.Invalidate(userID) }

// RequirePermission returns middleware enforcing resourceType:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := ag.Authorize(r.Context(), action, resourceType, nil); err != nil {
				WriteAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// RequireAdmin returns middleware that only admits live admin sessions.
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, _ := auth.UserIDFromContext(r.Context())
			if !ag.IsAdmin(r.Context(), uid) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// WriteAuthError maps gate errors to 401/403 JSON.
func WriteAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, gate.ErrUnauthorized) {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
}
