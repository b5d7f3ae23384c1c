package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/models"
	"github.com/diewo77/go-directory/internal/services"
	"github.com/diewo77/go-directory/internal/validation"
	"gorm.io/gorm"
)

// LeadHandler serves the public enquiry form and the admin lead inbox.
type LeadHandler struct {
	db     *gorm.DB
	notify *services.NotificationService
}

func NewLeadHandler(db *gorm.DB) *LeadHandler {
	return &LeadHandler{db: db, notify: services.NewNotificationService(db)}
}

type businessRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type leadView struct {
	ID         uint         `json:"id"`
	Name       string       `json:"name"`
	Mobile     string       `json:"mobile"`
	Message    *string      `json:"message"`
	Status     string       `json:"status"`
	BusinessID uint         `json:"businessId"`
	Business   *businessRef `json:"business"`
	UserID     *uint        `json:"userId"`
	CreatedAt  time.Time    `json:"createdAt"`
}

func newLeadView(e models.Enquiry) leadView {
	v := leadView{
		ID: e.ID, Name: e.Name, Mobile: e.Mobile, Message: e.Message, Status: e.Status,
		BusinessID: e.BusinessID, UserID: e.UserID, CreatedAt: e.CreatedAt,
	}
	if e.Business != nil {
		v.Business = &businessRef{ID: e.Business.ID, Name: e.Business.Name}
	}
	return v
}

func selectName(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }

// Create records a customer enquiry for the business in the path.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	businessID, ok := httpx.RequireID(w, r, httpx.PathID)
	if !ok {
		return
	}
	var in struct {
		Name    string  `json:"name"`
		Mobile  string  `json:"mobile"`
		Message *string `json:"message"`
	}
	if !decode(w, r, &in) {
		return
	}
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	validation.Required("mobile", in.Mobile, v)
	if !v.Empty() {
		invalid(w, v)
		return
	}

	var biz models.Business
	if err := h.db.WithContext(r.Context()).Select("id", "name").First(&biz, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		writeServiceError(w, err, "enquiry_create_failed")
		return
	}

	e := models.Enquiry{
		Name:       *validation.Optional(&in.Name),
		Mobile:     *validation.Optional(&in.Mobile),
		Message:    validation.Optional(in.Message),
		Status:     models.EnquiryPending,
		BusinessID: biz.ID,
	}
	if err := h.db.WithContext(r.Context()).Omit("Business").Create(&e).Error; err != nil {
		writeServiceError(w, err, "enquiry_create_failed")
		return
	}
	record(r.Context(), h.notify, models.NotificationLead, "New Lead: "+e.Name, "Enquiry for "+biz.Name)
	e.Business = &biz
	httpx.JSON(w, http.StatusCreated, newLeadView(e))
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	var leads []models.Enquiry
	err := h.db.WithContext(r.Context()).
		Preload("Business", selectName).
		Order("created_at desc").Order("id desc").
		Find(&leads).Error
	if err != nil {
		writeServiceError(w, err, "leads_list_failed")
		return
	}
	out := make([]leadView, 0, len(leads))
	for _, l := range leads {
		out = append(out, newLeadView(l))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.QueryID)
	if !ok {
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &in) {
		return
	}
	v := make(validation.Violations)
	validation.OneOf("status", in.Status, []string{models.EnquiryPending, models.EnquiryResolved}, v)
	if !v.Empty() {
		invalid(w, v)
		return
	}
	res := h.db.WithContext(r.Context()).Model(&models.Enquiry{}).Where("id = ?", id).Update("status", in.Status)
	if res.Error != nil {
		writeServiceError(w, res.Error, "lead_update_failed")
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var e models.Enquiry
	if err := h.db.WithContext(r.Context()).Preload("Business", selectName).First(&e, id).Error; err != nil {
		writeServiceError(w, err, "lead_update_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, newLeadView(e))
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.QueryID)
	if !ok {
		return
	}
	res := h.db.WithContext(r.Context()).Delete(&models.Enquiry{}, id)
	if res.Error != nil {
		writeServiceError(w, res.Error, "lead_delete_failed")
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, deleted{Message: "Lead Deleted", Deleted: id})
}
