package ws

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"imagetagger/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeImageService implements the parts of domain.ImageService the dispatcher uses.
type fakeImageService struct {
	domain.ImageService

	mu        sync.Mutex
	info      map[string]domain.ImageInfo
	updateErr error
	updates   map[string][]string
}

func (f *fakeImageService) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.info)
}

func (f *fakeImageService) Get(ctx context.Context, id string) (domain.ImageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.info[id]
	if !ok {
		return domain.ImageInfo{}, domain.NotFoundf("image %s", id)
	}
	return info, nil
}

func (f *fakeImageService) UpdateTags(ctx context.Context, id string, tags []string) ([]string, []string, error) {
	if f.updateErr != nil {
		return nil, nil, f.updateErr
	}
	normalized, err := domain.NormalizeTags(tags)
	if err != nil {
		return nil, nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = make(map[string][]string)
	}
	f.updates[id] = normalized
	return normalized, domain.NewTagSet(normalized...).Sorted(), nil
}

// fakeTagService is an in-memory domain.TagService.
type fakeTagService struct {
	mu   sync.Mutex
	tags domain.TagSet
	err  error
}

func newFakeTagService(tags ...string) *fakeTagService {
	return &fakeTagService{tags: domain.NewTagSet(tags...)}
}

func (f *fakeTagService) List(ctx context.Context) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tags.Sorted()
}

func (f *fakeTagService) Search(ctx context.Context, query string, prefixOnly bool) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tags.Search(query, prefixOnly)
}

func (f *fakeTagService) Add(ctx context.Context, tag string) (bool, []string, error) {
	if f.err != nil {
		return false, nil, f.err
	}
	t, err := domain.NormalizeTag(tag)
	if err != nil {
		return false, nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	added := f.tags.Add(t)
	return added, f.tags.Sorted(), nil
}

func (f *fakeTagService) Remove(ctx context.Context, tag string) ([]string, []string, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := f.tags.Remove(tag)
	return removed, f.tags.Sorted(), nil
}

func (f *fakeTagService) Merge(ctx context.Context, tags []string) (bool, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := false
	for _, t := range tags {
		if f.tags.Add(t) {
			changed = true
		}
	}
	return changed, f.tags.Sorted(), nil
}

// fakeSessionService records positions and returns canned checkpoints.
type fakeSessionService struct {
	mu            sync.Mutex
	status        domain.SessionStatus
	position      string
	checkpointAt  time.Time
	checkpointErr error
}

func (f *fakeSessionService) Status(ctx context.Context) domain.SessionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeSessionService) Checkpoint(ctx context.Context) (time.Time, error) {
	return f.checkpointAt, f.checkpointErr
}

func (f *fakeSessionService) SetPosition(ctx context.Context, imageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = imageID
	return nil
}

func (f *fakeSessionService) Position() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}
