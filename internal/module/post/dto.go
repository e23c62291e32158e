package post

import "time"

// PostRequest is the body of post create and update requests, sent as JSON
// or as a multipart form carrying thumbnail_file. Nil tag_ids keep the
// current tags on update.
type PostRequest struct {
	Title       string     `json:"title" form:"title" binding:"required,max=255"`
	Slug        string     `json:"slug" form:"slug" binding:"omitempty,max=255"`
	Excerpt     string     `json:"excerpt" form:"excerpt" binding:"max=500"`
	Content     string     `json:"content" form:"content"`
	Status      string     `json:"status" form:"status" binding:"omitempty,oneof=draft scheduled published"`
	PublishedAt *time.Time `json:"published_at" form:"published_at"`
	Featured    *bool      `json:"featured" form:"featured"`
	CategoryID  *uint      `json:"category_id" form:"category_id" binding:"omitempty,gt=0"`
	TagIDs      *[]uint    `json:"tag_ids" form:"-" binding:"omitempty,dive,gt=0"`
}
