package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/services"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	svc *services.NotificationService
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{svc: services.NewNotificationService(db)}
}

// List returns the latest feed entries, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Latest(r.Context(), services.FeedSize)
	if err != nil {
		writeServiceError(w, err, "notifications_list_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// record writes to the activity feed; a failure there never fails the request.
func record(ctx context.Context, svc *services.NotificationService, typ, title, msg string) {
	if err := svc.Record(ctx, typ, title, msg); err != nil {
		slog.Warn("notification not recorded", "type", typ, "error", err)
	}
}
