package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-directory/internal/auth"
	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/models"
	"github.com/diewo77/go-directory/internal/services"
	"github.com/diewo77/go-directory/internal/services/mailer"
	"github.com/diewo77/go-directory/internal/services/otp"
	"gorm.io/gorm"
)

// AuthHandler runs the two-step admin login: credentials, then a mailed
// one-time code, then a session cookie.
type AuthHandler struct {
	users    *services.UserService
	sessions *services.SessionService
	codes    otp.Store
	mail     mailer.Mailer
	otpTTL   time.Duration
}

func NewAuthHandler(db *gorm.DB, sessions *services.SessionService, codes otp.Store, m mailer.Mailer, otpTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		users:    services.NewUserService(db),
		sessions: sessions,
		codes:    codes,
		mail:     m,
		otpTTL:   otpTTL,
	}
}

type loginRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decode(w, r, &in) {
		return
	}
	switch in.Action {
	case "send-otp":
		h.sendOTP(w, r, in)
	case "verify-otp":
		h.verifyOTP(w, r, in)
	default:
		httpx.JSONError(w, http.StatusBadRequest, "invalid_action", nil)
	}
}

func (h *AuthHandler) sendOTP(w http.ResponseWriter, r *http.Request, in loginRequest) {
	u, err := h.users.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			slog.Warn("admin login rejected", "email", models.NormalizeEmail(in.Email))
			httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		writeServiceError(w, err, "login_failed")
		return
	}

	code, err := otp.Generate()
	if err != nil {
		writeServiceError(w, err, "login_failed")
		return
	}
	if err := h.codes.Put(r.Context(), u.Email, code); err != nil {
		writeServiceError(w, err, "login_failed")
		return
	}
	msg, err := mailer.OTPMessage(u.Email, code, int(h.otpTTL.Minutes()))
	if err == nil {
		err = h.mail.Send(r.Context(), msg)
	}
	if err != nil {
		slog.Error("otp delivery failed", "email", u.Email, "error", err)
		if derr := h.codes.Delete(r.Context(), u.Email); derr != nil {
			slog.Warn("otp not discarded", "error", derr)
		}
		httpx.JSONError(w, http.StatusBadGateway, "otp_delivery_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "OTP sent to your email"})
}

func (h *AuthHandler) verifyOTP(w http.ResponseWriter, r *http.Request, in loginRequest) {
	email := models.NormalizeEmail(in.Email)
	code := strings.TrimSpace(in.OTP)
	if email == "" || code == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_or_expired_otp", nil)
		return
	}
	ok, err := h.codes.Verify(r.Context(), email, code)
	if err != nil {
		writeServiceError(w, err, "login_failed")
		return
	}
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_or_expired_otp", nil)
		return
	}

	var u models.User
	if err := h.users.DB.WithContext(r.Context()).Where("email = ?", email).First(&u).Error; err != nil || !u.IsAdmin() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_or_expired_otp", nil)
		return
	}
	sess, err := h.sessions.Start(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err, "login_failed")
		return
	}
	if err := auth.CreateSession(w, sess); err != nil {
		writeServiceError(w, err, "login_failed")
		return
	}
	slog.Info("admin signed in", "user_id", u.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Logout revokes the server-side session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := auth.SessionFromContext(r.Context()); ok {
		if err := h.sessions.Revoke(r.Context(), s.ID); err != nil {
			writeServiceError(w, err, "logout_failed")
			return
		}
	}
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me returns the signed-in admin.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	u, err := h.users.Get(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err, "me_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, u.View())
}
