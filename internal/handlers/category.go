package handlers

import (
	"net/http"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/services"
	"github.com/diewo77/go-directory/internal/validation"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	svc *services.CategoryService
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{svc: services.NewCategoryService(db)}
}

type categoryInput struct {
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

func (in categoryInput) validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	return v
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "categories_list_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if !decode(w, r, &in) {
		return
	}
	if v := in.validate(); !v.Empty() {
		invalid(w, v)
		return
	}
	c, err := h.svc.Create(r.Context(), in.Name, validation.Optional(in.Image))
	if err != nil {
		writeServiceError(w, err, "category_create_failed")
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.QueryID)
	if !ok {
		return
	}
	var in categoryInput
	if !decode(w, r, &in) {
		return
	}
	if v := in.validate(); !v.Empty() {
		invalid(w, v)
		return
	}
	c, err := h.svc.Update(r.Context(), id, in.Name, validation.Optional(in.Image))
	if err != nil {
		writeServiceError(w, err, "category_update_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.QueryID)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "category_delete_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, deleted{Message: "Category Deleted", Deleted: id})
}
