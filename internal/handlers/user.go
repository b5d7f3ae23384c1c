package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-directory/internal/gate"
	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/models"
	"github.com/diewo77/go-directory/internal/policy"
	"github.com/diewo77/go-directory/internal/services"
	"github.com/diewo77/go-directory/internal/validation"
	"gorm.io/gorm"
)

// UserHandler manages accounts from the admin console.
// Role changes drop the cached authorization profile of the user.
type UserHandler struct {
	svc      *services.UserService
	sessions *services.SessionService
	notify   *services.NotificationService
	gate     *policy.AuthGate
}

func NewUserHandler(db *gorm.DB, sessions *services.SessionService, ag *policy.AuthGate) *UserHandler {
	return &UserHandler{
		svc:      services.NewUserService(db),
		sessions: sessions,
		notify:   services.NewNotificationService(db),
		gate:     ag,
	}
}

type userInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "users_list_failed")
		return
	}
	out := make([]models.UserView, 0, len(users))
	for i := range users {
		out = append(out, users[i].View())
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in userInput
	if !decode(w, r, &in) {
		return
	}
	v := make(validation.Violations)
	validation.Required("email", deref(in.Email), v)
	validation.Email("email", deref(in.Email), v)
	validation.Required("password", deref(in.Password), v)
	role := models.RoleUser
	if in.Role != nil && *in.Role != "" {
		role = *in.Role
		validation.OneOf("role", role, []string{models.RoleUser, models.RoleAdmin}, v)
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}

	u, err := h.svc.Create(r.Context(), services.UserInput{
		Name:     validation.Optional(in.Name),
		Email:    *in.Email,
		Phone:    validation.Optional(in.Phone),
		Password: *in.Password,
		Role:     role,
	})
	if err != nil {
		writeServiceError(w, err, "user_create_failed")
		return
	}
	record(r.Context(), h.notify, models.NotificationUser, "New User: "+u.DisplayName(), u.Email)
	httpx.JSON(w, http.StatusCreated, u.View())
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.QueryID)
	if !ok {
		return
	}
	var in userInput
	if !decode(w, r, &in) {
		return
	}
	v := make(validation.Violations)
	if in.Email != nil {
		validation.Required("email", *in.Email, v)
		validation.Email("email", *in.Email, v)
	}
	if in.Role != nil {
		validation.OneOf("role", *in.Role, []string{models.RoleUser, models.RoleAdmin}, v)
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}

	up := services.UserUpdate{Name: in.Name, Email: in.Email, Phone: in.Phone, Password: in.Password, Role: in.Role}
	u, roleChanged, err := h.svc.Update(r.Context(), id, up)
	if err != nil {
		writeServiceError(w, err, "user_update_failed")
		return
	}
	if roleChanged {
		h.gate.InvalidateUser(id)
		if !u.IsAdmin() {
			if err := h.sessions.RevokeUser(r.Context(), id); err != nil {
				slog.Warn("sessions not revoked after demotion", "user_id", id, "error", err)
			}
		}
	}
	httpx.JSON(w, http.StatusOK, u.View())
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.QueryID)
	if !ok {
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionDelete, "user", id); err != nil {
		if errors.Is(err, gate.ErrForbidden) {
			httpx.JSONError(w, http.StatusConflict, "cannot_delete_self", nil)
			return
		}
		policy.WriteAuthError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "user_delete_failed")
		return
	}
	h.gate.InvalidateUser(id)
	httpx.JSON(w, http.StatusOK, deleted{Message: "Entity Deleted", Deleted: id})
}
