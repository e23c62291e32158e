package media

// UploadRequest is the form accompanying an uploaded file. Images is coerced
// like a boolean filter value; when true the file is stored as an image with
// variants.
type UploadRequest struct {
	Folder string `form:"folder" binding:"omitempty,max=100"`
	Name   string `form:"name" binding:"omitempty,max=255"`
	Images string `form:"images"`
}

// UploadResult holds the stored path of a plain file, or the variant map of
// an image.
type UploadResult struct {
	Path  string            `json:"path"`
	Paths map[string]string `json:"paths,omitempty"`
}

// DeleteRequest names stored files to remove.
type DeleteRequest struct {
	Paths    []string `json:"paths" binding:"required,min=1,max=100,dive,required,max=500"`
	Variants bool     `json:"variants"`
}
