package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/simp-lee/gocms/internal/query"
)

// Post is a blog post.
type Post struct {
	BaseModel
	Audit
	Title       string     `gorm:"size:255;not null" json:"title"`
	Slug        string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"size:500" json:"excerpt"`
	Content     string     `gorm:"type:text" json:"content"`
	Status      string     `gorm:"size:20;not null;index" json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	Thumbnail   *string    `gorm:"size:255" json:"thumbnail"`
	Featured    bool       `gorm:"not null" json:"featured"`
	CategoryID  *uint      `gorm:"index" json:"category_id"`
	Category    *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;" json:"category,omitempty"`
	Tags        []Tag      `gorm:"many2many:post_tags;" json:"tags,omitempty"`
}

// Page is a standalone content page.
type Page struct {
	BaseModel
	Audit
	Title     string  `gorm:"size:255;not null" json:"title"`
	Slug      string  `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Content   string  `gorm:"type:text" json:"content"`
	Status    string  `gorm:"size:20;not null;index" json:"status"`
	Thumbnail *string `gorm:"size:255" json:"thumbnail"`
	ParentID  *uint   `gorm:"index" json:"parent_id"`
}

// Category is a hierarchical post taxonomy.
type Category struct {
	BaseModel
	Audit
	Title       string `gorm:"size:255;not null" json:"title"`
	Slug        string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"size:500" json:"description"`
	ParentID    *uint  `gorm:"index" json:"parent_id"`
}

// Tag is a flat post taxonomy.
type Tag struct {
	BaseModel
	Audit
	Title string `gorm:"size:255;not null" json:"title"`
	Slug  string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
}

// Widget is a navigational block (menu, link list) rendered at a site location.
type Widget struct {
	BaseModel
	Audit
	Title    string         `gorm:"size:255;not null" json:"title"`
	Location string         `gorm:"size:50;not null;index" json:"location"`
	Items    datatypes.JSON `json:"items"`
	IsActive bool           `gorm:"not null" json:"is_active"`
	Position int            `gorm:"not null;default:0" json:"position"`
}

// WidgetItem is one link inside Widget.Items.
type WidgetItem struct {
	Label  string `json:"label" binding:"required,max=100"`
	URL    string `json:"url" binding:"required,max=500"`
	Target string `json:"target,omitempty" binding:"omitempty,oneof=_self _blank"`
}

// PostRepository defines the data access interface for posts.
type PostRepository interface {
	Transaction(ctx context.Context, fn func(repo PostRepository) error) error
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id uint) (*Post, error)
	List(ctx context.Context, p query.Params) (*query.Result[Post], error)
	Update(ctx context.Context, post *Post) error
	// ReplaceTags sets the tags of post to exactly tagIDs.
	ReplaceTags(ctx context.Context, post *Post, tagIDs []uint) error
	FindByIDs(ctx context.Context, ids []uint) ([]Post, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	UpdateByIDs(ctx context.Context, ids []uint, values map[string]any) (int64, error)
}

// PageRepository defines the data access interface for pages.
type PageRepository interface {
	Transaction(ctx context.Context, fn func(repo PageRepository) error) error
	Create(ctx context.Context, page *Page) error
	GetByID(ctx context.Context, id uint) (*Page, error)
	List(ctx context.Context, p query.Params) (*query.Result[Page], error)
	Update(ctx context.Context, page *Page) error
	FindByIDs(ctx context.Context, ids []uint) ([]Page, error)
	// DeleteByIDs removes pages; their children become top-level pages.
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	UpdateByIDs(ctx context.Context, ids []uint, values map[string]any) (int64, error)
}

// CategoryRepository defines the data access interface for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context, p query.Params) (*query.Result[Category], error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
	// DeleteByIDs removes categories; child categories become top-level and
	// posts lose their category.
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

// TagRepository defines the data access interface for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, id uint) (*Tag, error)
	List(ctx context.Context, p query.Params) (*query.Result[Tag], error)
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, id uint) error
	// DeleteByIDs removes tags and detaches them from posts.
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

// WidgetRepository defines the data access interface for widgets.
type WidgetRepository interface {
	Create(ctx context.Context, widget *Widget) error
	GetByID(ctx context.Context, id uint) (*Widget, error)
	List(ctx context.Context, p query.Params) (*query.Result[Widget], error)
	Update(ctx context.Context, widget *Widget) error
	Delete(ctx context.Context, id uint) error
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	UpdateByIDs(ctx context.Context, ids []uint, values map[string]any) (int64, error)
}
