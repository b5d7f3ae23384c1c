package services

import (
	"context"

	"github.com/diewo77/go-directory/internal/models"
	"gorm.io/gorm"
)

// FeedSize is how many notifications the admin feed returns.
const FeedSize = 10

type NotificationService struct{ DB *gorm.DB }

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Record appends an entry to the activity feed.
func (s *NotificationService) Record(ctx context.Context, typ, title, message string) error {
	n := models.Notification{Type: typ, Title: title, Message: message}
	return s.DB.WithContext(ctx).Create(&n).Error
}

// Latest returns the newest limit entries.
func (s *NotificationService) Latest(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = FeedSize
	}
	out := []models.Notification{}
	err := s.DB.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(limit).Find(&out).Error
	return out, err
}
