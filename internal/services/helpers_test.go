package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"imagetagger/internal/adapters/imaging"
	"imagetagger/internal/domain"
	"imagetagger/internal/repository/filestore"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func pngBytes(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: shade, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeTagRepository keeps tags in memory and can be told to fail saves.
type fakeTagRepository struct {
	mu      sync.Mutex
	saved   []string
	saves   int
	saveErr error
}

func (f *fakeTagRepository) Load(ctx context.Context) (domain.TagSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.NewTagSet(f.saved...), nil
}

func (f *fakeTagRepository) Save(ctx context.Context, tags domain.TagSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.saved = tags.Sorted()
	return nil
}

// flakyCopier fails the first failures calls with err, then copies.
type flakyCopier struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
}

func (f *flakyCopier) Copy(src, dst string) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	if fail {
		return f.err
	}
	return imaging.CopyFile(src, dst)
}

// fakeThumbnailer writes a marker file and counts calls.
type fakeThumbnailer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeThumbnailer) Generate(src, dst string, size int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, []byte("thumb"), 0o644)
}

type imageFixture struct {
	inputDir  string
	outputDir string
	store     *filestore.SessionStore
	tagRepo   *fakeTagRepository
	tags      domain.TagService
	svc       domain.ImageService
}

type fixtureOptions struct {
	copier      domain.FileCopier
	thumbnailer domain.Thumbnailer
}

// newImageFixture builds an image service over an input directory holding
// the given file names, each a valid PNG.
func newImageFixture(t *testing.T, names []string, opts fixtureOptions) *imageFixture {
	t.Helper()
	input := t.TempDir()
	for i, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(input, name), pngBytes(t, uint8(i*40)), 0o644))
	}
	output := filepath.Join(input, "output")
	logger := discardLogger()
	store := filestore.NewSessionStore(filepath.Join(output, "session.json"), 0, logger)
	tagRepo := &fakeTagRepository{}
	tags := NewTagService(tagRepo, store, nil, logger)
	copier := opts.copier
	if copier == nil {
		copier = imaging.Copier{}
	}
	svc := NewImageService(ImageConfig{
		InputDir:      input,
		OutputDir:     output,
		Prefix:        "img",
		Padding:       3,
		ThumbnailSize: 64,
		CopyBackoff:   time.Millisecond,
	}, ImageDeps{
		Store:       store,
		Sidecars:    filestore.NewSidecarRepository(),
		TagService:  tags,
		Scanner:     imaging.NewScanner(logger),
		Copier:      copier,
		Thumbnailer: opts.thumbnailer,
		Logger:      logger,
	})
	svc.(*imageService).sleep = func(context.Context, time.Duration) error { return nil }
	_, err := svc.Scan(context.Background())
	require.NoError(t, err)
	return &imageFixture{inputDir: input, outputDir: output, store: store, tagRepo: tagRepo, tags: tags, svc: svc}
}

func (f *imageFixture) path(name string) string { return filepath.Join(f.inputDir, name) }

func outputEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
