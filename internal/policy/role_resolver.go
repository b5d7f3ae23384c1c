package policy

import (
	"context"
	"errors"

	"github.com/diewo77/go-directory/internal/gate"
	"github.com/diewo77/go-directory/internal/models"
	"gorm.io/gorm"
)

var (
	adminProfile = gate.NewStaticProfile(models.RoleAdmin, gate.PermissionSuperAdmin)
	userProfile  = gate.NewStaticProfile(models.RoleUser)
)

// ProfileForRole maps an account role to its permission profile.
// Unknown roles get no profile.
func ProfileForRole(role string) gate.Profile {
	switch role {
	case models.RoleAdmin:
		return adminProfile
	case models.RoleUser:
		return userProfile
	}
	return nil
}

// DBRoleResolver resolves a user id to the profile of the user's role.
type DBRoleResolver struct {
	DB *gorm.DB
}

// NewDBRoleResolver creates a database-backed resolver.
func NewDBRoleResolver(db *gorm.DB) *DBRoleResolver { return &DBRoleResolver{DB: db} }

// Resolve returns nil, nil for deleted users so the answer can be cached.
func (r *DBRoleResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Select("id", "role").First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ProfileForRole(u.Role), nil
}
