package filestore

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"imagetagger/internal/domain"
)

// TagFileRepository stores the master tag list as a sorted, newline-delimited
// UTF-8 file.
type TagFileRepository struct {
	path   string
	logger *slog.Logger
}

var _ domain.TagRepository = (*TagFileRepository)(nil)

// NewTagFileRepository returns a repository backed by the file at path.
func NewTagFileRepository(path string, logger *slog.Logger) *TagFileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagFileRepository{path: path, logger: logger}
}

// Path returns the tag file location.
func (r *TagFileRepository) Path() string { return r.path }

// Load reads the tag file. A missing file yields an empty set and an empty
// file is created in its place. Entries that are not valid tags are logged
// and dropped.
func (r *TagFileRepository) Load(ctx context.Context) (domain.TagSet, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := WriteFileAtomic(r.path, nil, 0o644, false); err != nil {
			return nil, &domain.StorageError{Op: "create tag file", Path: r.path, Err: err}
		}
		r.logger.InfoContext(ctx, "created tag file", "path", r.path)
		return domain.NewTagSet(), nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "read tag file", Path: r.path, Err: err}
	}
	set, rejected := parseTagFile(string(data))
	for _, line := range rejected {
		r.logger.WarnContext(ctx, "dropping invalid tag from tag file", "path", r.path, "tag", line)
	}
	return set, nil
}

// parseTagFile accepts one tag per line. A single-line file containing commas
// is the legacy comma-separated form. Entries are normalized; entries that
// fail normalization are returned as rejected.
func parseTagFile(content string) (domain.TagSet, []string) {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	nonEmpty := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 1 && strings.Contains(content, ",") {
		lines = strings.Split(content, ",")
	}
	set := domain.NewTagSet()
	var rejected []string
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		tag, err := domain.NormalizeTag(l)
		if err != nil {
			rejected = append(rejected, strings.TrimSpace(l))
			continue
		}
		set.Add(tag)
	}
	return set, rejected
}

// Save rewrites the tag file sorted, one tag per line with a trailing newline.
// The previous file is kept as a backup.
func (r *TagFileRepository) Save(ctx context.Context, tags domain.TagSet) error {
	sorted := tags.Sorted()
	var b strings.Builder
	for _, t := range sorted {
		b.WriteString(t)
		b.WriteByte('\n')
	}
	if err := WriteFileAtomic(r.path, []byte(b.String()), 0o644, true); err != nil {
		return &domain.StorageError{Op: "save tag file", Path: r.path, Err: err}
	}
	r.logger.DebugContext(ctx, "tag file saved", "path", r.path, "count", len(sorted))
	return nil
}
