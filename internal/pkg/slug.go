package pkg

import (
	"strings"

	"github.com/gosimple/slug"

	"github.com/simp-lee/gocms/internal/domain"
)

// Slugify transliterates s to ASCII, lowercases it and joins its words with
// hyphens: "Crème Brûlée & Co" becomes "creme-brulee-and-co".
func Slugify(s string) string {
	return slug.Make(s)
}

// ResolveSlug returns the slug to store: the explicit one normalised, or one
// derived from title.
func ResolveSlug(explicit, title string) (string, error) {
	src := explicit
	if strings.TrimSpace(src) == "" {
		src = title
	}
	out := Slugify(src)
	if out == "" {
		return "", domain.NewAppError(domain.CodeValidation, "slug is required", nil)
	}
	if len(out) > 255 {
		return "", domain.NewAppError(domain.CodeValidation, "slug must be at most 255 characters", nil)
	}
	return out, nil
}
