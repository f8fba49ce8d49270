// Package docs loads the documents the pipelines read: images for the
// vision steps and resumes or notes as plain text. Files may live on
// disk or in the R2 bucket.
package docs

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Image is raw image bytes plus the MIME type sent to the model.
type Image struct {
	Data     []byte
	MIMEType string
}

// MIMEByExt maps a file name to an image type by extension. Anything that
// is not jpg, jpeg or webp is treated as PNG.
func MIMEByExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// SniffImage picks the image type from the content, falling back to the
// extension when the bytes are not a recognised image.
func SniffImage(name string, data []byte) Image {
	mt := mimetype.Detect(data)
	if strings.HasPrefix(mt.String(), "image/") {
		return Image{Data: data, MIMEType: mt.String()}
	}
	return Image{Data: data, MIMEType: MIMEByExt(name)}
}
