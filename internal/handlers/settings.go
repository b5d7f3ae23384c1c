package handlers

import (
	"net/http"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/services"
	"github.com/diewo77/go-directory/internal/validation"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	svc *services.SettingsService
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{svc: services.NewSettingsService(db)}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, "settings_get_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

// Update replaces all editable settings at once.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SiteName        string `json:"siteName"`
		SupportEmail    string `json:"supportEmail"`
		MaintenanceMode bool   `json:"maintenanceMode"`
		AIModel         string `json:"aiModel"`
	}
	if !decode(w, r, &in) {
		return
	}
	v := make(validation.Violations)
	validation.Required("siteName", in.SiteName, v)
	validation.Email("supportEmail", in.SupportEmail, v)
	if !v.Empty() {
		invalid(w, v)
		return
	}
	st, err := h.svc.Update(r.Context(), services.SettingsInput{
		SiteName:        in.SiteName,
		SupportEmail:    in.SupportEmail,
		MaintenanceMode: in.MaintenanceMode,
		AIModel:         in.AIModel,
	})
	if err != nil {
		writeServiceError(w, err, "settings_update_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}
