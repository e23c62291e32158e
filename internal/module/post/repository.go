package post

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/crud"
	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
)

// postFilter is the list filter of the posts resource.
var postFilter = query.NewFilter("posts", query.SortSpec{
	Columns:   []string{"id", "title", "status", "created_at", "updated_at", "published_at", "category"},
	Default:   "created_at",
	Direction: query.Desc,
	Joins: map[string]query.SortJoin{
		"category": {Table: "categories", LocalKey: "category_id", ForeignKey: "id", Column: "title"},
	},
}).
	Search("search", "title", "status", "created_at").
	Match("status", "status").
	ForeignKey("category_id", "category_id").
	Exists("tag_id", query.Relation{Table: "post_tags", OwnerKey: "post_id", ForeignKey: "tag_id"}).
	Bool("featured", "featured").
	ForeignKey("created_by", "created_by")

// postRepository implements domain.PostRepository.
type postRepository struct {
	*crud.Repository[domain.Post]
}

// NewPostRepository creates a PostRepository backed by db.
func NewPostRepository(db *gorm.DB) domain.PostRepository {
	return &postRepository{crud.New[domain.Post](db, postFilter, "Category", "Tags")}
}

func (r *postRepository) Transaction(ctx context.Context, fn func(repo domain.PostRepository) error) error {
	return r.Transact(ctx, func(tx *crud.Repository[domain.Post]) error {
		return fn(&postRepository{tx})
	})
}

// ReplaceTags sets the tags of post. Unknown tag ids are a validation error.
func (r *postRepository) ReplaceTags(ctx context.Context, post *domain.Post, tagIDs []uint) error {
	db := r.DB(ctx)
	tags := []domain.Tag{}
	if len(tagIDs) > 0 {
		if err := db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return pkg.MapDBError(err)
		}
		if len(tags) != len(tagIDs) {
			return domain.NewAppError(domain.CodeValidation, "tag_ids contains an unknown tag", nil)
		}
	}
	if err := db.Model(post).Association("Tags").Replace(tags); err != nil {
		return pkg.MapDBError(err)
	}
	post.Tags = tags
	return nil
}

// DeleteByIDs removes posts and their tag links. Callers run it inside
// Transaction.
func (r *postRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if err := r.DB(ctx).Exec("DELETE FROM post_tags WHERE post_id IN ?", ids).Error; err != nil {
		return 0, pkg.MapDBError(err)
	}
	return r.Repository.DeleteByIDs(ctx, ids)
}
