package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-directory/internal/models"
	"gorm.io/gorm"
)

type CategoryService struct{ DB *gorm.DB }

func NewCategoryService(db *gorm.DB) *CategoryService { return &CategoryService{DB: db} }

// List returns every category by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	err := s.DB.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// Create stores a category with a slug derived from name.
func (s *CategoryService) Create(ctx context.Context, name string, image *string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	c := models.Category{Name: name, Slug: models.Slugify(name), Image: image}
	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return &c, nil
}

// Update overwrites name, slug and image.
func (s *CategoryService) Update(ctx context.Context, id uint, name string, image *string) (*models.Category, error) {
	var c models.Category
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	c.Name = strings.TrimSpace(name)
	c.Slug = models.Slugify(c.Name)
	c.Image = image
	if err := s.DB.WithContext(ctx).Save(&c).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes an unused category. Categories with listings are kept.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.Business{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return ErrCategoryInUse
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
