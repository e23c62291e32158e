package domain

import "time"

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Audit records which user created and last updated a row.
type Audit struct {
	CreatedBy *uint `gorm:"index" json:"created_by"`
	UpdatedBy *uint `json:"updated_by"`
}

// Stamp sets the audit columns for the acting user. A zero actor leaves them untouched.
func (a *Audit) Stamp(actorID uint, creating bool) {
	if actorID == 0 {
		return
	}
	id := actorID
	if creating {
		a.CreatedBy = &id
	}
	a.UpdatedBy = &id
}

// Content statuses shared by posts and pages.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// ValidStatus reports whether s is a known content status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished:
		return true
	default:
		return false
	}
}
