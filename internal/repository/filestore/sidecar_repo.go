package filestore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"imagetagger/internal/domain"
)

// SidecarRepository reads and writes the per-image ".txt" tag files.
type SidecarRepository struct{}

var _ domain.SidecarRepository = SidecarRepository{}

// NewSidecarRepository returns a SidecarRepository.
func NewSidecarRepository() SidecarRepository { return SidecarRepository{} }

// ReadTags returns the tags in the sidecar in file order. Both the canonical
// comma-separated form and the legacy one-tag-per-line form are accepted. A
// missing sidecar has no tags.
func (SidecarRepository) ReadTags(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "read sidecar", Path: path, Err: err}
	}
	return parseSidecar(string(data)), nil
}

func parseSidecar(content string) []string {
	parts := strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// WriteTags replaces the sidecar with tags joined by domain.SidecarSeparator,
// duplicates dropped and no trailing newline.
func (SidecarRepository) WriteTags(ctx context.Context, path string, tags []string) error {
	content := strings.Join(parseSidecar(strings.Join(tags, ",")), domain.SidecarSeparator)
	if err := WriteFileAtomic(path, []byte(content), 0o644, false); err != nil {
		return &domain.StorageError{Op: "write sidecar", Path: path, Err: err}
	}
	return nil
}

// Ensure creates an empty sidecar unless one already exists.
func (SidecarRepository) Ensure(ctx context.Context, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return &domain.StorageError{Op: "create sidecar", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.StorageError{Op: "create sidecar", Path: path, Err: err}
	}
	return nil
}
