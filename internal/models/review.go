package models

import (
	"errors"
	"time"

	"github.com/diewo77/go-directory/internal/validation"
	"gorm.io/gorm"
)

// Rating bounds of a review.
const (
	MinRating = 0
	MaxRating = 5
)

// ErrInvalidRating is returned when a review is saved with a rating outside
// MinRating..MaxRating.
var ErrInvalidRating = errors.New("rating out of range")

// Review is a user's rating of a business. Moderation is delete-only.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    *string   `gorm:"type:text" json:"comment"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BusinessID uint      `gorm:"not null;index" json:"businessId"`
	Business   *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
}

// BeforeSave keeps ratings within bounds on every insert and update.
func (r *Review) BeforeSave(*gorm.DB) error {
	v := make(validation.Violations)
	validation.RangeInt("rating", r.Rating, MinRating, MaxRating, v)
	if !v.Empty() {
		return ErrInvalidRating
	}
	return nil
}
