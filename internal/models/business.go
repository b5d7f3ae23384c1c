package models

import "time"

// Business is a directory listing.
type Business struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	CategoryID  uint            `gorm:"not null;index" json:"categoryId"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Phone       *string         `gorm:"size:32" json:"phone"`
	Email       *string         `gorm:"size:255" json:"email"`
	Website     *string         `gorm:"size:255" json:"website"`
	Address     string          `gorm:"size:500;not null" json:"address"`
	City        *string         `gorm:"size:120;index" json:"city"`
	Pincode     *string         `gorm:"size:16" json:"pincode"`
	Description *string         `gorm:"type:text" json:"description"`
	IsVerified  bool            `gorm:"not null;default:true" json:"isVerified"`
	Images      []BusinessImage `gorm:"constraint:OnDelete:CASCADE;" json:"images,omitempty"`
	Enquiries   []Enquiry       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Reviews     []Review        `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// BusinessImage holds a listing photo. URL may be a data URL.
type BusinessImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	BusinessID uint      `gorm:"not null;index" json:"businessId"`
}
