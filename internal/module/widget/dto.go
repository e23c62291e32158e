package widget

import "github.com/simp-lee/gocms/internal/domain"

// WidgetRequest is the body of widget create and update requests.
type WidgetRequest struct {
	Title    string              `json:"title" binding:"required,max=255"`
	Location string              `json:"location" binding:"required,max=50"`
	Items    []domain.WidgetItem `json:"items" binding:"max=100,dive"`
	IsActive *bool               `json:"is_active"`
	Position int                 `json:"position"`
}
