package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors returned by the services; handlers map them to HTTP codes.
var (
	ErrNotFound           = errors.New("not_found")
	ErrEmailTaken         = errors.New("email_already_exists")
	ErrCategoryExists     = errors.New("category_already_exists")
	ErrCategoryInUse      = errors.New("category_in_use")
	ErrCategoryNotFound   = errors.New("category_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// isDuplicate recognizes unique violations whether or not the dialect
// translates them to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
