package imaging

import (
	"fmt"
	"os"
	"path/filepath"

	thumbnails "github.com/drummonds/go-thumbnails"

	"imagetagger/internal/domain"
)

// DefaultThumbnailSize is the longest edge of generated previews, in pixels.
const DefaultThumbnailSize = 320

// Thumbnailer renders uniform PNG previews with go-thumbnails.
type Thumbnailer struct{}

var _ domain.Thumbnailer = Thumbnailer{}

// Generate writes a preview of src to dst, creating dst's directory.
func (Thumbnailer) Generate(src, dst string, size int) error {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create thumbnail directory: %w", err)
	}
	if err := thumbnails.GenerateStyledAndSave(src, dst, uint(size), thumbnails.StyleUniform); err != nil {
		return fmt.Errorf("generate thumbnail for %s: %w", src, err)
	}
	return nil
}
