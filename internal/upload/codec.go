package upload

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// imageTypes are the formats the codec can both decode and re-encode.
var imageTypes = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/bmp":  imaging.BMP,
	"image/tiff": imaging.TIFF,
}

var formatContentTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
	imaging.BMP:  "image/bmp",
	imaging.TIFF: "image/tiff",
}

func detect(src Source) (*mimetype.MIME, error) {
	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", src.Filename(), err)
	}
	defer r.Close()

	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, fmt.Errorf("detect content type of %q: %w", src.Filename(), err)
	}
	return mt, nil
}

// imageFormat returns the encoding format for a sniffed payload, or false if
// the payload is not a supported image.
func imageFormat(mt *mimetype.MIME) (imaging.Format, bool) {
	for m := mt; m != nil; m = m.Parent() {
		if f, ok := imageTypes[m.String()]; ok {
			return f, true
		}
	}
	return 0, false
}

// extensionFor keeps the uploaded extension unless it contradicts a sniffed
// image format, in which case the format's canonical extension wins.
func extensionFor(filename string, mt *mimetype.MIME) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		return mt.Extension()
	}
	if f, ok := imageFormat(mt); ok {
		if g, err := imaging.FormatFromExtension(ext); err != nil || g != f {
			return mt.Extension()
		}
	}
	return ext
}

func decodeImage(src Source) (image.Image, error) {
	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", src.Filename(), err)
	}
	defer r.Close()

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", src.Filename(), err)
	}
	return img, nil
}

// scaleDown fits img into the bounding box, keeping the aspect ratio. Images
// already inside the box are returned unchanged.
func scaleDown(img image.Image, size Size) image.Image {
	b := img.Bounds()
	if b.Dx() <= size.Width && b.Dy() <= size.Height {
		return img
	}
	return imaging.Fit(img, size.Width, size.Height, imaging.Lanczos)
}

func encodeImage(img image.Image, format imaging.Format, quality int) (io.Reader, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return &buf, nil
}
