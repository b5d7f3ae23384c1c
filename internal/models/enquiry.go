package models

import "time"

// Enquiry status values.
const (
	EnquiryPending  = "PENDING"
	EnquiryResolved = "RESOLVED"
)

// Enquiry is a lead: a customer contact request for a business.
type Enquiry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Mobile     string    `gorm:"size:32;not null" json:"mobile"`
	Message    *string   `gorm:"type:text" json:"message"`
	Status     string    `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	BusinessID uint      `gorm:"not null;index" json:"businessId"`
	Business   *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	UserID     *uint     `gorm:"index" json:"userId"`
}

// ValidEnquiryStatus reports whether s is an accepted status.
func ValidEnquiryStatus(s string) bool { return s == EnquiryPending || s == EnquiryResolved }
