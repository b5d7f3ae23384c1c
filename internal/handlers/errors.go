package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/services"
	"github.com/diewo77/go-directory/internal/validation"
)

// writeServiceError maps service sentinels to HTTP errors. Anything else is
// logged and reported as failCode.
func writeServiceError(w http.ResponseWriter, err error, failCode string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrEmailTaken):
		httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
	case errors.Is(err, services.ErrCategoryExists):
		httpx.JSONError(w, http.StatusConflict, "category_already_exists", nil)
	case errors.Is(err, services.ErrCategoryInUse):
		httpx.JSONError(w, http.StatusConflict, "category_in_use", nil)
	case errors.Is(err, services.ErrCategoryNotFound):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"categoryId": "not_found"})
	default:
		slog.Error(failCode, "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, failCode, nil)
	}
}

// decode reads the JSON body into dst and answers 400 invalid_json itself.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return false
	}
	return true
}

func invalid(w http.ResponseWriter, v validation.Violations) {
	httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
}

type deleted struct {
	Message string `json:"message"`
	Deleted uint   `json:"deleted"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
