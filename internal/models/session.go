package models

import "time"

// AdminSession is the server-side record behind an admin session cookie.
// ID is the token's jti.
type AdminSession struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UserID    uint       `gorm:"not null;index" json:"userId"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt"`
}

// Active reports whether the session is usable at now.
func (s *AdminSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
