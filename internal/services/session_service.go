package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/diewo77/go-directory/internal/auth"
	"github.com/diewo77/go-directory/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService persists admin sessions so they can be revoked.
type SessionService struct {
	DB  *gorm.DB
	TTL time.Duration
	now func() time.Time
}

func NewSessionService(db *gorm.DB, ttl time.Duration) *SessionService {
	return &SessionService{DB: db, TTL: ttl, now: time.Now}
}

// Start opens a session for userID and drops expired rows.
func (s *SessionService) Start(ctx context.Context, userID uint) (auth.Session, error) {
	now := s.now()
	row := models.AdminSession{ID: uuid.NewString(), UserID: userID, ExpiresAt: now.Add(s.TTL)}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return auth.Session{}, err
	}
	if err := s.DB.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.AdminSession{}).Error; err != nil {
		slog.Warn("purge expired sessions failed", "error", err)
	}
	return auth.Session{ID: row.ID, UserID: userID, ExpiresAt: row.ExpiresAt}, nil
}

// Verify reports whether sess matches a live row.
func (s *SessionService) Verify(ctx context.Context, sess auth.Session) bool {
	var row models.AdminSession
	if err := s.DB.WithContext(ctx).First(&row, "id = ?", sess.ID).Error; err != nil {
		return false
	}
	return row.UserID == sess.UserID && row.Active(s.now())
}

// Revoke ends one session. Revoking twice is not an error.
func (s *SessionService) Revoke(ctx context.Context, id string) error {
	now := s.now()
	return s.DB.WithContext(ctx).Model(&models.AdminSession{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", &now).Error
}

// RevokeUser ends every session of a user, e.g. after demotion.
func (s *SessionService) RevokeUser(ctx context.Context, userID uint) error {
	now := s.now()
	return s.DB.WithContext(ctx).Model(&models.AdminSession{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", &now).Error
}
