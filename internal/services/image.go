package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"imagetagger/internal/domain"
)

const (
	defaultCopyAttempts = 3
	defaultCopyBackoff  = 500 * time.Millisecond
	defaultThumbSize    = 320
	thumbnailDirName    = ".thumbs"
)

// ImageConfig holds the directories and naming rules of an image service.
type ImageConfig struct {
	InputDir      string
	OutputDir     string
	Prefix        string
	Padding       int
	ThumbnailSize int
	// CopyAttempts bounds how often a transient copy failure is retried.
	CopyAttempts int
	CopyBackoff  time.Duration
}

// ImageDeps are the collaborators of an image service.
type ImageDeps struct {
	Store       domain.SessionStore
	Sidecars    domain.SidecarRepository
	TagService  domain.TagService
	Scanner     domain.ImageScanner
	Copier      domain.FileCopier
	Thumbnailer domain.Thumbnailer
	Logger      *slog.Logger
}

type imageService struct {
	cfg         ImageConfig
	store       domain.SessionStore
	sidecars    domain.SidecarRepository
	tags        domain.TagService
	scanner     domain.ImageScanner
	copier      domain.FileCopier
	thumbnailer domain.Thumbnailer
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error

	mu     sync.RWMutex
	images []domain.SourceImage

	// allocMu spans listing, allocation and copy so two images never race
	// for the same name.
	allocMu sync.Mutex
	thumbMu sync.Mutex
}

// NewImageService creates an ImageService. Call Scan before using it.
func NewImageService(cfg ImageConfig, deps ImageDeps) domain.ImageService {
	if cfg.Prefix == "" {
		cfg.Prefix = "img"
	}
	if cfg.Padding < 1 {
		cfg.Padding = DefaultPadding
	}
	if cfg.ThumbnailSize < 1 {
		cfg.ThumbnailSize = defaultThumbSize
	}
	if cfg.CopyAttempts < 1 {
		cfg.CopyAttempts = defaultCopyAttempts
	}
	if cfg.CopyBackoff <= 0 {
		cfg.CopyBackoff = defaultCopyBackoff
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &imageService{
		cfg:         cfg,
		store:       deps.Store,
		sidecars:    deps.Sidecars,
		tags:        deps.TagService,
		scanner:     deps.Scanner,
		copier:      deps.Copier,
		thumbnailer: deps.Thumbnailer,
		logger:      deps.Logger,
		sleep:       sleepContext,
	}
}

// Scan refreshes the image list from the input directory and records the
// total in the session. A current position that no longer names an image
// falls back to the first unprocessed image.
func (s *imageService) Scan(ctx context.Context) ([]domain.SourceImage, error) {
	images, err := s.scanner.Scan(ctx, s.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan images: %w", err)
	}
	s.mu.Lock()
	s.images = images
	s.mu.Unlock()

	err = s.store.Mutate(func(st *domain.SessionState) error {
		st.Stats.TotalImages = len(images)
		if pos := st.Position(); pos != "" {
			if _, err := domain.ParseImageID(pos, len(images)); err != nil {
				next := fallbackPosition(images, st.ProcessedImages)
				s.logger.WarnContext(ctx, "current position no longer exists", "position", pos, "fallback", next)
				st.SetPosition(next)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record scan: %w", err)
	}
	return append([]domain.SourceImage(nil), images...), nil
}

func fallbackPosition(images []domain.SourceImage, processed map[string]string) string {
	for _, img := range images {
		if _, ok := processed[img.Path]; !ok {
			return img.ID
		}
	}
	if len(images) > 0 {
		return images[0].ID
	}
	return ""
}

func (s *imageService) Process(ctx context.Context, originalPath string) (domain.ImageRecord, error) {
	if rec, ok := s.existing(ctx, originalPath); ok {
		return rec, nil
	}

	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	// Another caller may have finished this image while we waited.
	if rec, ok := s.existing(ctx, originalPath); ok {
		return rec, nil
	}
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return domain.ImageRecord{}, &domain.StorageError{Op: "create output directory", Path: s.cfg.OutputDir, Err: err}
	}

	snap := s.store.Snapshot()
	name, reuse := snap.ProcessedImages[originalPath]
	if !reuse {
		existing, err := s.outputNames(snap)
		if err != nil {
			return domain.ImageRecord{}, err
		}
		name = Allocate(existing, s.cfg.Prefix, s.cfg.Padding) + strings.ToLower(filepath.Ext(originalPath))
	}
	dst := filepath.Join(s.cfg.OutputDir, name)

	if !fileExists(dst) {
		if err := s.copyWithRetry(ctx, originalPath, dst); err != nil {
			return domain.ImageRecord{}, err
		}
	}
	sidecar := domain.SidecarPath(s.cfg.OutputDir, name)
	if err := s.sidecars.Ensure(ctx, sidecar); err != nil {
		if !reuse {
			_ = os.Remove(dst)
		}
		return domain.ImageRecord{}, fmt.Errorf("create sidecar: %w", err)
	}
	tags, err := s.sidecars.ReadTags(ctx, sidecar)
	if err != nil {
		return domain.ImageRecord{}, fmt.Errorf("read sidecar: %w", err)
	}

	if err := s.store.Mutate(func(st *domain.SessionState) error {
		st.ProcessedImages[originalPath] = name
		return nil
	}); err != nil {
		return domain.ImageRecord{}, fmt.Errorf("record mapping: %w", err)
	}
	s.logger.InfoContext(ctx, "image processed", "original", originalPath, "assigned", name)
	return domain.ImageRecord{OriginalPath: originalPath, AssignedName: name, SidecarPath: sidecar, Tags: tags}, nil
}

// existing returns the recorded mapping for originalPath when both the copy
// and its sidecar are still on disk.
func (s *imageService) existing(ctx context.Context, originalPath string) (domain.ImageRecord, bool) {
	name, ok := s.store.Snapshot().ProcessedImages[originalPath]
	if !ok {
		return domain.ImageRecord{}, false
	}
	sidecar := domain.SidecarPath(s.cfg.OutputDir, name)
	if !fileExists(filepath.Join(s.cfg.OutputDir, name)) || !fileExists(sidecar) {
		return domain.ImageRecord{}, false
	}
	tags, err := s.sidecars.ReadTags(ctx, sidecar)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read sidecar", "path", sidecar, "err", err)
		tags = []string{}
	}
	return domain.ImageRecord{OriginalPath: originalPath, AssignedName: name, SidecarPath: sidecar, Tags: tags}, true
}

// outputNames lists the output directory together with every name already
// assigned in the session, so a deleted copy never frees its number.
func (s *imageService) outputNames(snap domain.SessionState) ([]string, error) {
	entries, err := os.ReadDir(s.cfg.OutputDir)
	if err != nil {
		return nil, &domain.StorageError{Op: "list output directory", Path: s.cfg.OutputDir, Err: err}
	}
	names := make([]string, 0, len(entries)+len(snap.ProcessedImages))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	for _, name := range snap.ProcessedImages {
		names = append(names, name)
	}
	return names, nil
}

func (s *imageService) copyWithRetry(ctx context.Context, src, dst string) error {
	var err error
	for attempt := 1; attempt <= s.cfg.CopyAttempts; attempt++ {
		err = s.copier.Copy(src, dst)
		if err == nil || permanentCopyError(err) {
			return err
		}
		if attempt == s.cfg.CopyAttempts {
			break
		}
		s.logger.WarnContext(ctx, "copy failed, retrying", "src", src, "attempt", attempt, "err", err)
		if serr := s.sleep(ctx, s.cfg.CopyBackoff*time.Duration(attempt)); serr != nil {
			return serr
		}
	}
	return err
}

// permanentCopyError reports failures that a retry cannot fix.
func permanentCopyError(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrExist) || errors.Is(err, fs.ErrPermission)
}

func (s *imageService) ProcessAll(ctx context.Context) (int, error) {
	images := s.snapshotImages()
	processed := 0
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if _, err := s.Process(ctx, img.Path); err != nil {
			s.logger.ErrorContext(ctx, "failed to process image", "path", img.Path, "err", err)
			continue
		}
		processed++
	}
	s.logger.InfoContext(ctx, "processing complete", "processed", processed, "total", len(images))
	return processed, nil
}

func (s *imageService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

func (s *imageService) List(ctx context.Context, page domain.PaginationParams) (domain.ImageList, error) {
	images := s.snapshotImages()
	snap := s.store.Snapshot()
	start, end := page.Bounds(len(images))
	out := make([]domain.ImageSummary, 0, end-start)
	for _, img := range images[start:end] {
		out = append(out, s.info(img, snap).Summary())
	}
	return domain.ImageList{Images: out, Total: len(images)}, nil
}

func (s *imageService) Get(ctx context.Context, id string) (domain.ImageInfo, error) {
	img, err := s.lookup(id)
	if err != nil {
		return domain.ImageInfo{}, err
	}
	info := s.info(img, s.store.Snapshot())
	info.Tags = []string{}
	if info.NewName != nil {
		tags, err := s.sidecars.ReadTags(ctx, domain.SidecarPath(s.cfg.OutputDir, *info.NewName))
		if err != nil {
			return domain.ImageInfo{}, fmt.Errorf("read tags of image %s: %w", id, err)
		}
		info.Tags = tags
	}
	return info, nil
}

func (s *imageService) Tags(ctx context.Context, id string) ([]string, error) {
	info, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return info.Tags, nil
}

// UpdateTags replaces the tags of an image, processing it first if needed.
// New tags are merged into the master list and the image becomes the
// current position.
func (s *imageService) UpdateTags(ctx context.Context, id string, tags []string) ([]string, []string, error) {
	img, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	normalized, err := domain.NormalizeTags(tags)
	if err != nil {
		return nil, nil, err
	}
	rec, err := s.Process(ctx, img.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("process image %s: %w", id, err)
	}
	if err := s.sidecars.WriteTags(ctx, rec.SidecarPath, normalized); err != nil {
		return nil, nil, fmt.Errorf("save tags of image %s: %w", id, err)
	}
	_, all, err := s.tags.Merge(ctx, normalized)
	if err != nil {
		return nil, nil, fmt.Errorf("merge tags: %w", err)
	}
	if err := s.store.Mutate(func(st *domain.SessionState) error {
		st.SetPosition(id)
		return nil
	}); err != nil {
		return nil, nil, fmt.Errorf("set position: %w", err)
	}
	s.logger.InfoContext(ctx, "tags updated", "image_id", id, "count", len(normalized))
	return normalized, all, nil
}

// FilePath returns the processed copy when there is one, else the original.
func (s *imageService) FilePath(ctx context.Context, id string) (string, error) {
	img, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	if name, ok := s.store.Snapshot().ProcessedImages[img.Path]; ok {
		p := filepath.Join(s.cfg.OutputDir, name)
		if fileExists(p) {
			return p, nil
		}
	}
	return img.Path, nil
}

// Thumbnail returns a cached preview of the image, rendering it on first use.
func (s *imageService) Thumbnail(ctx context.Context, id string) (string, error) {
	src, err := s.FilePath(ctx, id)
	if err != nil {
		return "", err
	}
	if s.thumbnailer == nil {
		return src, nil
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dst := filepath.Join(s.cfg.OutputDir, thumbnailDirName, fmt.Sprintf("%s_%s_%d.png", id, base, s.cfg.ThumbnailSize))

	s.thumbMu.Lock()
	defer s.thumbMu.Unlock()
	if fileExists(dst) {
		return dst, nil
	}
	if err := s.thumbnailer.Generate(src, dst, s.cfg.ThumbnailSize); err != nil {
		return "", &domain.StorageError{Op: "render thumbnail", Path: dst, Err: err}
	}
	return dst, nil
}

func (s *imageService) lookup(id string) (domain.SourceImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, err := domain.ParseImageID(id, len(s.images))
	if err != nil {
		return domain.SourceImage{}, err
	}
	return s.images[idx], nil
}

func (s *imageService) snapshotImages() []domain.SourceImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SourceImage(nil), s.images...)
}

func (s *imageService) info(img domain.SourceImage, snap domain.SessionState) domain.ImageInfo {
	info := domain.ImageInfo{
		ID:           img.ID,
		OriginalName: img.OriginalName,
		URL:          "/api/images/" + img.ID + "/file",
	}
	if name, ok := snap.ProcessedImages[img.Path]; ok {
		n := name
		info.NewName = &n
		info.Processed = true
	}
	return info
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
