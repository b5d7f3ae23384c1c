package models

import "time"

// Notification types.
const (
	NotificationLead    = "LEAD"
	NotificationUser    = "USER"
	NotificationListing = "LISTING"
)

// Notification is an entry of the admin activity feed.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
}
