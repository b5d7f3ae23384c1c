package models

// SettingsID is the primary key of the single SiteSettings row.
const SettingsID = "global-config"

// SiteSettings is a singleton configuration row.
type SiteSettings struct {
	ID              string `gorm:"primaryKey;size:32" json:"id"`
	SiteName        string `gorm:"size:255;not null" json:"siteName"`
	SupportEmail    string `gorm:"size:255;not null" json:"supportEmail"`
	MaintenanceMode bool   `gorm:"not null;default:false" json:"maintenanceMode"`
	AIModel         string `gorm:"column:ai_model;size:64;not null" json:"aiModel"`
}

// DefaultSettings returns the values the singleton row is created with.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		ID:              SettingsID,
		SiteName:        "JustDial Clone",
		SupportEmail:    "admin@justdial.com",
		MaintenanceMode: false,
		AIModel:         "Imagen-3-Turbo",
	}
}
