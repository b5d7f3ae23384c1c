package db

import (
	"fmt"

	"github.com/diewo77/go-directory/internal/models"
	"gorm.io/gorm"
)

var baseCategories = []string{
	"Restaurants", "Hotels", "Hospitals", "Beauty Spa", "Home Decor",
	"Wedding Planning", "Education", "Gyms", "Car Repair", "Pet Shops",
}

// Seed inserts the settings singleton and the starter categories. Safe to
// run repeatedly.
func Seed(db *gorm.DB) error {
	var settings models.SiteSettings
	if err := db.Where(models.SiteSettings{ID: models.SettingsID}).Attrs(models.DefaultSettings()).FirstOrCreate(&settings).Error; err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	for _, name := range baseCategories {
		var c models.Category
		if err := db.Where(models.Category{Name: name}).Attrs(models.Category{Slug: models.Slugify(name)}).FirstOrCreate(&c).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return nil
}
