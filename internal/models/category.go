package models

import (
	"strings"
	"time"
	"unicode"
)

// Category groups businesses (e.g. "Restaurants", "Luxury Spa").
type Category struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Name       string     `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Slug       string     `gorm:"index;size:255;not null" json:"slug"`
	Image      *string    `gorm:"type:text" json:"image"`
	Businesses []Business `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`
}

// Slugify derives a URL slug from a display name: lowercase, characters
// outside [a-z0-9_ ] dropped, each run of spaces replaced by one hyphen.
// Slugs are not unique by construction.
func Slugify(name string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ':
			pendingSpace = true
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
