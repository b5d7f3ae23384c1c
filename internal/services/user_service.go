package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-directory/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInput is the payload of an admin-created account.
type UserInput struct {
	Name     *string
	Email    string
	Phone    *string
	Password string
	Role     string
}

// UserUpdate is a partial update; nil fields are left unchanged and a
// blank name or phone clears it.
type UserUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
	Role     *string
}

type UserService struct{ DB *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{DB: db} }

// dummyHash keeps the cost of a failed lookup close to a failed compare.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// List returns accounts newest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	out := []models.User{}
	err := s.DB.WithContext(ctx).
		Select("id", "name", "email", "phone", "role", "created_at").
		Order("created_at desc").Order("id desc").
		Find(&out).Error
	return out, err
}

// Get loads one account.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Create stores a new account with a hashed password.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := models.User{
		Name:     in.Name,
		Email:    models.NormalizeEmail(in.Email),
		Phone:    in.Phone,
		Password: hash,
		Role:     role,
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}

// Update applies in to the account. It reports whether the role changed.
func (s *UserService) Update(ctx context.Context, id uint, in UserUpdate) (*models.User, bool, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, false, notFound(err)
	}
	roleChanged := false
	applyOptional(&u.Name, in.Name)
	applyOptional(&u.Phone, in.Phone)
	if in.Email != nil {
		u.Email = models.NormalizeEmail(*in.Email)
	}
	if in.Role != nil && *in.Role != u.Role {
		u.Role = *in.Role
		roleChanged = true
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, false, err
		}
		u.Password = hash
	}
	if err := s.DB.WithContext(ctx).Omit("Reviews", "Enquiries", "Sessions").Save(&u).Error; err != nil {
		if isDuplicate(err) {
			return nil, false, ErrEmailTaken
		}
		return nil, false, err
	}
	return &u, roleChanged, nil
}

// Delete removes an account. Reviews and sessions go with it; enquiries
// stay and lose their user reference.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.AdminSession{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Enquiry{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Authenticate checks admin credentials. Every failure is
// ErrInvalidCredentials so callers cannot tell accounts apart.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsAdmin() {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// EnsureAdmin creates an ADMIN account or promotes an existing one and
// resets its password.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string, name *string) (*models.User, bool, error) {
	email = models.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, false, errors.New("email and password are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	var u models.User
	err = s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = models.User{Email: email, Name: name, Password: hash, Role: models.RoleAdmin}
		if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, false, err
		}
		return &u, true, nil
	case err != nil:
		return nil, false, err
	}
	updates := map[string]any{"password": hash, "role": models.RoleAdmin}
	if name != nil {
		updates["name"] = *name
	}
	if err := s.DB.WithContext(ctx).Model(&u).Updates(updates).Error; err != nil {
		return nil, false, err
	}
	return &u, false, nil
}
