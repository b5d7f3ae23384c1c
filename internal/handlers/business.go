package handlers

import (
	"net/http"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/models"
	"github.com/diewo77/go-directory/internal/services"
	"github.com/diewo77/go-directory/internal/validation"
	"gorm.io/gorm"
)

type BusinessHandler struct {
	svc    *services.BusinessService
	notify *services.NotificationService
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{
		svc:    services.NewBusinessService(db),
		notify: services.NewNotificationService(db),
	}
}

type businessInput struct {
	Name        *string `json:"name"`
	CategoryID  *uint   `json:"categoryId"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Website     *string `json:"website"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Pincode     *string `json:"pincode"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "businesses_list_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.PathID)
	if !ok {
		return
	}
	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "business_get_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in businessInput
	if !decode(w, r, &in) {
		return
	}
	v := make(validation.Violations)
	validation.Required("name", deref(in.Name), v)
	validation.Required("address", deref(in.Address), v)
	if in.CategoryID == nil {
		v["categoryId"] = "required"
	} else {
		validation.RequiredID("categoryId", *in.CategoryID, v)
	}
	validation.Email("email", deref(in.Email), v)
	if !v.Empty() {
		invalid(w, v)
		return
	}

	b := &models.Business{
		Name:        *validation.Optional(in.Name),
		CategoryID:  *in.CategoryID,
		Phone:       validation.Optional(in.Phone),
		Email:       validation.Optional(in.Email),
		Website:     validation.Optional(in.Website),
		Address:     *validation.Optional(in.Address),
		City:        validation.Optional(in.City),
		Pincode:     validation.Optional(in.Pincode),
		Description: validation.Optional(in.Description),
	}
	if err := h.svc.Create(r.Context(), b, validation.Optional(in.Image)); err != nil {
		writeServiceError(w, err, "business_create_failed")
		return
	}
	record(r.Context(), h.notify, models.NotificationListing, "New Listing: "+b.Name, b.Address)

	created, err := h.svc.Get(r.Context(), b.ID)
	if err != nil {
		writeServiceError(w, err, "business_create_failed")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.PathID)
	if !ok {
		return
	}
	var in businessInput
	if !decode(w, r, &in) {
		return
	}
	v := make(validation.Violations)
	validation.Email("email", deref(in.Email), v)
	if in.CategoryID != nil {
		validation.RequiredID("categoryId", *in.CategoryID, v)
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}
	b, err := h.svc.Update(r.Context(), id, services.BusinessUpdate{
		Name:        in.Name,
		CategoryID:  in.CategoryID,
		Phone:       in.Phone,
		Email:       in.Email,
		Website:     in.Website,
		Address:     in.Address,
		City:        in.City,
		Pincode:     in.Pincode,
		Description: in.Description,
		Image:       in.Image,
	})
	if err != nil {
		writeServiceError(w, err, "business_update_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// ToggleVerify sets only isVerified.
func (h *BusinessHandler) ToggleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.QueryID)
	if !ok {
		return
	}
	var in struct {
		IsVerified *bool `json:"isVerified"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.IsVerified == nil {
		invalid(w, validation.Violations{"isVerified": "required"})
		return
	}
	b, err := h.svc.SetVerified(r.Context(), id, *in.IsVerified)
	if err != nil {
		writeServiceError(w, err, "business_update_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.QueryID)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "business_delete_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, deleted{Message: "Business Deleted", Deleted: id})
}
