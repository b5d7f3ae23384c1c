package services

import (
	"context"

	"github.com/diewo77/go-directory/internal/models"
	"gorm.io/gorm"
)

// SettingsInput is a full replacement of the editable settings.
type SettingsInput struct {
	SiteName        string
	SupportEmail    string
	MaintenanceMode bool
	AIModel         string
}

type SettingsService struct{ DB *gorm.DB }

func NewSettingsService(db *gorm.DB) *SettingsService { return &SettingsService{DB: db} }

// Get returns the singleton row, creating it with defaults on first use.
func (s *SettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	var st models.SiteSettings
	err := s.DB.WithContext(ctx).
		Where(models.SiteSettings{ID: models.SettingsID}).
		Attrs(models.DefaultSettings()).
		FirstOrCreate(&st).Error
	if err != nil {
		// a concurrent first request may have inserted the row meanwhile
		if rerr := s.DB.WithContext(ctx).First(&st, "id = ?", models.SettingsID).Error; rerr != nil {
			return nil, err
		}
	}
	return &st, nil
}

// Update overwrites all four fields. aiModel is free-form.
func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (*models.SiteSettings, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	st.SiteName = in.SiteName
	st.SupportEmail = in.SupportEmail
	st.MaintenanceMode = in.MaintenanceMode
	st.AIModel = in.AIModel
	if err := s.DB.WithContext(ctx).Save(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}
