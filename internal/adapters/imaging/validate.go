// Package imaging finds, validates, copies and previews image files.
package imaging

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imagetagger/internal/domain"
)

// allowedExtensions lists the lower-cased extensions considered images.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".bmp":  {},
	".gif":  {},
	".tiff": {},
	".tif":  {},
}

// HasImageExtension reports whether name ends in a supported image extension,
// ignoring case.
func HasImageExtension(name string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// DecoderValidator accepts files with an image extension whose header decodes
// to a non-empty image.
type DecoderValidator struct{}

var _ domain.ImageValidator = DecoderValidator{}

// Valid implements domain.ImageValidator.
func (DecoderValidator) Valid(path string) bool {
	if !HasImageExtension(path) {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return false
	}
	return cfg.Width > 0 && cfg.Height > 0
}
