package pkg

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/query"
	"github.com/simp-lee/gocms/internal/upload"
)

// QueryParams returns the list filter bag from the URL query string.
// Repeated keys and "key[]" forms both yield multi-valued entries.
func QueryParams(c *gin.Context) query.Params {
	return query.FromValues(c.Request.URL.Query())
}

// ParseID reads a positive integer path parameter named "id".
func ParseID(c *gin.Context) (uint, error) {
	return ParseUintParam(c, "id")
}

// ParseUintParam reads a positive integer path parameter. A malformed value
// yields a validation AppError.
func ParseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, domain.NewAppError(domain.CodeValidation, fmt.Sprintf("invalid %s: %s", name, raw), nil)
	}
	return uint(id), nil
}

// FormPresent reports whether a multipart or urlencoded form carried key,
// even with an empty value.
func FormPresent(c *gin.Context, key string) bool {
	if _, ok := c.GetPostForm(key); ok {
		return true
	}
	if c.Request.MultipartForm != nil {
		_, ok := c.Request.MultipartForm.Value[key]
		return ok
	}
	return false
}

// FileSuffix names the multipart part carrying a new file for an image field.
const FileSuffix = "_file"

// ImageChange reads the edit requested for an image field: a file in
// "<field>_file" replaces it, and "<field>" sent empty clears it. A file wins
// over a clear. Requests that are not multipart carry no file.
func ImageChange(c *gin.Context, field string) (upload.Change, error) {
	var ch upload.Change
	fh, err := c.FormFile(field + FileSuffix)
	switch {
	case err == nil:
		ch.File = upload.FromFileHeader(fh)
		return ch, nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return ch, domain.NewAppError(domain.CodeValidation, "invalid multipart form", err)
	}
	if FormPresent(c, field) && strings.TrimSpace(c.PostForm(field)) == "" {
		ch.Clear = true
	}
	return ch, nil
}

// FormIDs reads repeated positive integer form values for key. It returns nil
// when the form does not carry key; a single empty value yields an empty list.
func FormIDs(c *gin.Context, key string) (*[]uint, error) {
	if !FormPresent(c, key) {
		return nil, nil
	}
	values := c.PostFormArray(key)
	if len(values) == 0 && c.Request.MultipartForm != nil {
		values = c.Request.MultipartForm.Value[key]
	}
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 || n > uint64(^uint(0)) {
			return nil, domain.NewAppError(domain.CodeValidation, fmt.Sprintf("%s must contain positive integers", key), nil)
		}
		ids = append(ids, uint(n))
	}
	return &ids, nil
}
