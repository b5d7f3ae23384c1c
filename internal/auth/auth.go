// Package auth issues and validates admin session cookies.
//
// The cookie carries an HS256 JWT whose subject is the user id and whose
// jti names a server-side session row. The signature and expiry are checked
// here; the row itself is checked through the SessionVerifier configured at
// bootstrap, so logout (revoking the row) takes effect immediately.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the admin session cookie.
const CookieName = "admin_token"

type ctxKey string

const sessionCtxKey = ctxKey("session")

// Session identifies one signed-in admin browser.
type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
}

// SessionVerifier reports whether a signature-valid session is still live
// server side (not revoked, user still allowed).
type SessionVerifier func(ctx context.Context, s Session) bool

var (
	mu       sync.RWMutex
	secret   []byte
	verifier SessionVerifier
	secure   bool
)

// SetSecret sets the signing key. Empty falls back to SESSION_SECRET.
func SetSecret(s string) {
	mu.Lock()
	secret = []byte(s)
	mu.Unlock()
}

// SetSecureCookies marks issued cookies Secure (HTTPS deployments).
func SetSecureCookies(v bool) {
	mu.Lock()
	secure = v
	mu.Unlock()
}

// SetSessionVerifier configures the server-side check used by RequireAuth.
func SetSessionVerifier(v SessionVerifier) {
	mu.Lock()
	verifier = v
	mu.Unlock()
}

// Secret returns the configured key, SESSION_SECRET, or a dev default.
func Secret() []byte {
	mu.RLock()
	defer mu.RUnlock()
	if len(secret) > 0 {
		return secret
	}
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("devsessionsecret")
}

// ErrInvalidToken covers every malformed, forged or expired token.
var ErrInvalidToken = errors.New("invalid session token")

// IssueToken signs s.
func IssueToken(s Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(s.UserID), 10),
		ID:        s.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(Secret())
}

// ParseToken verifies signature and expiry and returns the session.
func ParseToken(token string) (Session, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return Secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 || claims.ID == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{ID: claims.ID, UserID: uint(uid), ExpiresAt: claims.ExpiresAt.Time}, nil
}

// CreateSession sets the signed session cookie.
func CreateSession(w http.ResponseWriter, s Session) error {
	token, err := IssueToken(s)
	if err != nil {
		return err
	}
	mu.RLock()
	sec := secure
	mu.RUnlock()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   sec,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.ExpiresAt,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
	return nil
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the request cookie.
func ParseSession(r *http.Request) (Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Session{}, false
	}
	s, err := ParseToken(c.Value)
	if err != nil {
		return Session{}, false
	}
	return s, true
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// SessionFromContext extracts the session attached by Middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey).(Session)
	return s, ok
}

// UserIDFromContext extracts the session's user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok || s.UserID == 0 {
		return 0, false
	}
	return s.UserID, true
}

// Middleware attaches the session to the request context if the cookie is valid.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := ParseSession(r); ok {
			r = r.WithContext(WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a live session with 401 JSON.
// A cookie whose server-side session is gone is cleared.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		mu.RLock()
		v := verifier
		mu.RUnlock()
		if v != nil && !v(r.Context(), s) {
			ClearSession(w)
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
