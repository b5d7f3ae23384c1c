package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/services"
	"gorm.io/gorm"
)

type AnalyticsHandler struct {
	svc      *services.AnalyticsService
	settings *services.SettingsService
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:      services.NewAnalyticsService(db),
		settings: services.NewSettingsService(db),
	}
}

func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		writeServiceError(w, err, "analytics_failed")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httpx.JSON(w, http.StatusOK, snap)
}

// Report serves the same figures as a downloadable PDF.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		writeServiceError(w, err, "analytics_report_failed")
		return
	}
	st, err := h.settings.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, "analytics_report_failed")
		return
	}
	now := time.Now()
	pdf, err := services.RenderReport(snap, st.SiteName, now)
	if err != nil {
		writeServiceError(w, err, "analytics_report_failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="analytics-`+now.Format("2006-01-02")+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
