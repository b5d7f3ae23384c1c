package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-directory/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BusinessUpdate carries a partial update; nil fields are left unchanged.
// A blank optional text field clears the column.
type BusinessUpdate struct {
	Name        *string
	CategoryID  *uint
	Phone       *string
	Email       *string
	Website     *string
	Address     *string
	City        *string
	Pincode     *string
	Description *string
	IsVerified  *bool
	Image       *string
}

type BusinessService struct{ DB *gorm.DB }

func NewBusinessService(db *gorm.DB) *BusinessService { return &BusinessService{DB: db} }

// List returns listings newest first with category and images.
func (s *BusinessService) List(ctx context.Context) ([]models.Business, error) {
	out := []models.Business{}
	err := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Order("created_at desc").Order("id desc").
		Find(&out).Error
	return out, err
}

// Get loads one listing with images and category.
func (s *BusinessService) Get(ctx context.Context, id uint) (*models.Business, error) {
	var b models.Business
	if err := s.DB.WithContext(ctx).Preload("Category").Preload("Images").First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// Create stores an admin-authored listing, always verified, and its
// optional first image in the same transaction.
func (s *BusinessService) Create(ctx context.Context, b *models.Business, imageURL *string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := categoryExists(tx, b.CategoryID); err != nil {
			return err
		}
		b.IsVerified = true
		b.Images = nil
		if imageURL != nil && *imageURL != "" {
			b.Images = []models.BusinessImage{{URL: *imageURL}}
		}
		return tx.Omit("Category").Create(b).Error
	})
}

// Update applies u. A non-empty Image replaces every existing image with
// exactly one new row.
func (s *BusinessService) Update(ctx context.Context, id uint, u BusinessUpdate) (*models.Business, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Business
		if err := tx.First(&b, id).Error; err != nil {
			return notFound(err)
		}
		if u.CategoryID != nil && *u.CategoryID != b.CategoryID {
			if err := categoryExists(tx, *u.CategoryID); err != nil {
				return err
			}
			b.CategoryID = *u.CategoryID
		}
		applyString(&b.Name, u.Name)
		applyString(&b.Address, u.Address)
		applyOptional(&b.Phone, u.Phone)
		applyOptional(&b.Email, u.Email)
		applyOptional(&b.Website, u.Website)
		applyOptional(&b.City, u.City)
		applyOptional(&b.Pincode, u.Pincode)
		applyOptional(&b.Description, u.Description)
		if u.IsVerified != nil {
			b.IsVerified = *u.IsVerified
		}
		if err := tx.Omit(clause.Associations).Save(&b).Error; err != nil {
			return err
		}
		if u.Image != nil && *u.Image != "" {
			if err := tx.Where("business_id = ?", id).Delete(&models.BusinessImage{}).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.BusinessImage{URL: *u.Image, BusinessID: id}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SetVerified flips only the verification flag.
func (s *BusinessService) SetVerified(ctx context.Context, id uint, verified bool) (*models.Business, error) {
	res := s.DB.WithContext(ctx).Model(&models.Business{}).Where("id = ?", id).Update("is_verified", verified)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a listing with its images, enquiries and reviews.
func (s *BusinessService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dep := range []any{&models.BusinessImage{}, &models.Enquiry{}, &models.Review{}} {
			if err := tx.Where("business_id = ?", id).Delete(dep).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Business{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func categoryExists(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func applyString(dst *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*dst = strings.TrimSpace(*v)
	}
}

func applyOptional(dst **string, v *string) {
	if v == nil {
		return
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		*dst = nil
		return
	}
	*dst = &t
}
