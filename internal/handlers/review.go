package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/models"
	"gorm.io/gorm"
)

// ReviewHandler moderates reviews. There is no edit; bad reviews are deleted.
type ReviewHandler struct {
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

type reviewAuthor struct {
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

type reviewView struct {
	ID         uint          `json:"id"`
	Rating     int           `json:"rating"`
	Comment    *string       `json:"comment"`
	UserID     uint          `json:"userId"`
	User       *reviewAuthor `json:"user"`
	BusinessID uint          `json:"businessId"`
	Business   *businessRef  `json:"business"`
	CreatedAt  time.Time     `json:"createdAt"`
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	var reviews []models.Review
	err := h.db.WithContext(r.Context()).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") }).
		Preload("Business", selectName).
		Order("created_at desc").Order("id desc").
		Find(&reviews).Error
	if err != nil {
		writeServiceError(w, err, "reviews_list_failed")
		return
	}
	out := make([]reviewView, 0, len(reviews))
	for _, rv := range reviews {
		v := reviewView{
			ID: rv.ID, Rating: rv.Rating, Comment: rv.Comment,
			UserID: rv.UserID, BusinessID: rv.BusinessID, CreatedAt: rv.CreatedAt,
		}
		if rv.User != nil {
			v.User = &reviewAuthor{Name: rv.User.Name, Email: rv.User.Email}
		}
		if rv.Business != nil {
			v.Business = &businessRef{ID: rv.Business.ID, Name: rv.Business.Name}
		}
		out = append(out, v)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireID(w, r, httpx.QueryID)
	if !ok {
		return
	}
	res := h.db.WithContext(r.Context()).Delete(&models.Review{}, id)
	if res.Error != nil {
		writeServiceError(w, res.Error, "review_delete_failed")
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, deleted{Message: "Review Deleted", Deleted: id})
}
