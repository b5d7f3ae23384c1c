package models

import (
	"strings"
	"time"
)

// Role values stored on User.Role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a directory account. Only ADMIN users may sign in to the admin API.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      *string   `gorm:"size:255" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone     *string   `gorm:"size:32" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"size:16;not null;default:USER;index" json:"role"`

	Reviews   []Review       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Enquiries []Enquiry      `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	Sessions  []AdminSession `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// DisplayName returns the name when set, the email otherwise.
func (u *User) DisplayName() string {
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		return *u.Name
	}
	return u.Email
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool { return r == RoleUser || r == RoleAdmin }

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserView is the list/detail shape of a user. It never carries the password.
type UserView struct {
	ID        uint      `json:"id"`
	Name      *string   `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// View returns the safe representation of u.
func (u *User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role, CreatedAt: u.CreatedAt}
}
