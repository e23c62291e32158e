package domain

import (
	"context"
	"time"
)

// SiteInfoID is the primary key of the singleton site settings row.
const SiteInfoID uint = 1

// SiteInfo holds site-wide settings. Exactly one row exists.
type SiteInfo struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SiteName     string    `gorm:"size:255" json:"site_name"`
	Tagline      string    `gorm:"size:255" json:"tagline"`
	Description  string    `gorm:"size:1000" json:"description"`
	ContactEmail string    `gorm:"size:255" json:"contact_email"`
	FooterText   string    `gorm:"size:1000" json:"footer_text"`
	Logo         *string   `gorm:"size:255" json:"logo"`
	Favicon      *string   `gorm:"size:255" json:"favicon"`
	OGImage      *string   `gorm:"column:og_image;size:255" json:"og_image"`
	UpdatedBy    *uint     `json:"updated_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName pins the singleton table name.
func (SiteInfo) TableName() string { return "site_info" }

// ImagePath returns the stored path of the named image column.
func (s *SiteInfo) ImagePath(column string) *string {
	switch column {
	case "logo":
		return s.Logo
	case "favicon":
		return s.Favicon
	case "og_image":
		return s.OGImage
	default:
		return nil
	}
}

// SetImagePath stores p in the named image column.
func (s *SiteInfo) SetImagePath(column string, p *string) {
	switch column {
	case "logo":
		s.Logo = p
	case "favicon":
		s.Favicon = p
	case "og_image":
		s.OGImage = p
	}
}

// SiteInfoRepository defines the data access interface for the site settings row.
type SiteInfoRepository interface {
	Transaction(ctx context.Context, fn func(repo SiteInfoRepository) error) error
	// Get loads the settings row, or ErrNotFound before it is seeded.
	Get(ctx context.Context) (*SiteInfo, error)
	// Save writes every column of info, creating the row when missing.
	Save(ctx context.Context, info *SiteInfo) error
	// Seed creates the empty settings row if it does not exist.
	Seed(ctx context.Context) error
}
