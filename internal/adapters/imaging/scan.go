package imaging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"imagetagger/internal/domain"
)

// Scanner implements domain.ImageScanner on top of Scan.
type Scanner struct {
	Validator domain.ImageValidator
	Logger    *slog.Logger
}

var _ domain.ImageScanner = Scanner{}

// NewScanner returns a Scanner that validates files by decoding their header.
func NewScanner(logger *slog.Logger) Scanner {
	return Scanner{Validator: DecoderValidator{}, Logger: logger}
}

// Scan implements domain.ImageScanner.
func (s Scanner) Scan(ctx context.Context, dir string) ([]domain.SourceImage, error) {
	return Scan(ctx, dir, s.Validator, s.Logger)
}

// Scan lists the regular files directly inside dir that v accepts, sorted by
// name. Each image's ID is its index in the result.
func Scan(ctx context.Context, dir string, v domain.ImageValidator, logger *slog.Logger) ([]domain.SourceImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.StorageError{Op: "scan input directory", Path: dir, Err: err}
	}
	images := make([]domain.SourceImage, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !HasImageExtension(e.Name()) {
			continue
		}
		if !v.Valid(path) {
			logger.WarnContext(ctx, "skipping unreadable image", "path", path)
			continue
		}
		images = append(images, domain.SourceImage{
			ID:           strconv.Itoa(len(images)),
			Path:         path,
			OriginalName: e.Name(),
		})
	}
	logger.InfoContext(ctx, "scanned input directory", "dir", dir, "images", len(images))
	return images, nil
}
