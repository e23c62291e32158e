package widget

import (
	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/crud"
	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/query"
)

var widgetFilter = query.NewFilter("widgets", query.SortSpec{
	Columns:   []string{"id", "title", "location", "position", "created_at"},
	Default:   "position",
	Direction: query.Asc,
}).
	Search("search", "title", "location").
	Match("location", "location").
	Bool("is_active", "is_active")

// NewWidgetRepository creates a WidgetRepository backed by db.
func NewWidgetRepository(db *gorm.DB) domain.WidgetRepository {
	return crud.New[domain.Widget](db, widgetFilter)
}
