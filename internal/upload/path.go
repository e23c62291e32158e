package upload

import (
	"path"
	"strings"
)

// DeriveVariantPath swaps the folder segment directly above the file name.
// It reports false when that segment is not originalLabel, which is the case
// for assets uploaded without variants.
//
//	DeriveVariantPath("uploads/site/original/a.jpg", "original", "small")
//	// "uploads/site/small/a.jpg", true
func DeriveVariantPath(p, originalLabel, targetLabel string) (string, bool) {
	if p == "" || originalLabel == "" || targetLabel == "" {
		return "", false
	}
	dir, name := path.Split(p)
	dir = strings.TrimSuffix(dir, "/")
	if name == "" || path.Base(dir) != originalLabel {
		return "", false
	}
	return path.Join(path.Dir(dir), targetLabel, name), true
}

// assetPath lays out {base}/{folder}/{label}/{name}, with label omitted for
// uploads that carry no variants.
func assetPath(base, folder, label, name string) string {
	return path.Join(base, cleanFolder(folder), label, name)
}

func cleanFolder(folder string) string {
	return strings.Trim(path.Clean("/"+strings.ReplaceAll(folder, "\\", "/")), "/")
}

// cleanFileName keeps only the final element of a caller-supplied name.
func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
