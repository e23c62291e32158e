package page

// PageRequest is the body of page create and update requests, sent as JSON
// or as a multipart form carrying thumbnail_file.
type PageRequest struct {
	Title    string `json:"title" form:"title" binding:"required,max=255"`
	Slug     string `json:"slug" form:"slug" binding:"omitempty,max=255"`
	Content  string `json:"content" form:"content"`
	Status   string `json:"status" form:"status" binding:"omitempty,oneof=draft scheduled published"`
	ParentID *uint  `json:"parent_id" form:"parent_id" binding:"omitempty,gt=0"`
}
