package services

import (
	"context"

	"github.com/diewo77/go-directory/internal/models"
	"gorm.io/gorm"
)

// Stats are the dashboard counters.
type Stats struct {
	Users         int64 `json:"users"`
	Listings      int64 `json:"listings"`
	Leads         int64 `json:"leads"`
	ActiveSectors int64 `json:"activeSectors"`
}

// CategoryCount is one bar of the category distribution chart.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Snapshot is the full analytics payload.
type Snapshot struct {
	Stats                Stats           `json:"stats"`
	CategoryDistribution []CategoryCount `json:"categoryDistribution"`
}

type AnalyticsService struct{ DB *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{DB: db} }

// Snapshot recomputes all figures from the store.
func (s *AnalyticsService) Snapshot(ctx context.Context) (*Snapshot, error) {
	db := s.DB.WithContext(ctx)
	var snap Snapshot
	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.User{}, &snap.Stats.Users},
		{&models.Business{}, &snap.Stats.Listings},
		{&models.Enquiry{}, &snap.Stats.Leads},
		{&models.Category{}, &snap.Stats.ActiveSectors},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	snap.CategoryDistribution = []CategoryCount{}
	err := db.Table("categories").
		Select("categories.name AS name, COUNT(businesses.id) AS count").
		Joins("LEFT JOIN businesses ON businesses.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("categories.name asc").
		Scan(&snap.CategoryDistribution).Error
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
