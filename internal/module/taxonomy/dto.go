package taxonomy

// CategoryRequest is the body of category create and update requests.
type CategoryRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Slug        string `json:"slug" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"max=500"`
	ParentID    *uint  `json:"parent_id" binding:"omitempty,gt=0"`
}

// TagRequest is the body of tag create and update requests.
type TagRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Slug  string `json:"slug" binding:"omitempty,max=255"`
}
