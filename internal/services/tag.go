package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"imagetagger/internal/domain"
)

type tagService struct {
	repo   domain.TagRepository
	store  domain.SessionStore
	logger *slog.Logger

	mu   sync.Mutex
	tags domain.TagSet
}

// NewTagService creates a TagService seeded with initial, usually the result
// of repo.Load. Every change is written through repo and mirrored into the
// session's tag snapshot.
func NewTagService(repo domain.TagRepository, store domain.SessionStore, initial domain.TagSet, logger *slog.Logger) domain.TagService {
	if logger == nil {
		logger = slog.Default()
	}
	if initial == nil {
		initial = domain.NewTagSet()
	}
	s := &tagService{repo: repo, store: store, logger: logger, tags: initial}
	s.mirror(initial.Sorted())
	return s
}

func (s *tagService) List(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tags.Sorted()
}

func (s *tagService) Search(ctx context.Context, query string, prefixOnly bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tags.Search(query, prefixOnly)
}

func (s *tagService) Add(ctx context.Context, candidate string) (bool, []string, error) {
	tag, err := domain.NormalizeTag(candidate)
	if err != nil {
		return false, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tags.Contains(tag) {
		return false, s.tags.Sorted(), nil
	}
	next := s.cloneLocked()
	next.Add(tag)
	if err := s.commitLocked(ctx, next); err != nil {
		return false, nil, err
	}
	s.logger.InfoContext(ctx, "tag added", "tag", tag)
	return true, next.Sorted(), nil
}

// Remove deletes every tag equal to candidate ignoring case. Removing an
// unknown tag is a no-op.
func (s *tagService) Remove(ctx context.Context, candidate string) ([]string, []string, error) {
	tag, err := domain.NormalizeTag(candidate)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cloneLocked()
	removed := next.Remove(tag)
	if len(removed) == 0 {
		return []string{}, s.tags.Sorted(), nil
	}
	if err := s.commitLocked(ctx, next); err != nil {
		return nil, nil, err
	}
	s.logger.InfoContext(ctx, "tag removed", "tag", tag, "removed", removed)
	return removed, next.Sorted(), nil
}

// Merge adds every candidate missing from the registry and saves once.
func (s *tagService) Merge(ctx context.Context, candidates []string) (bool, []string, error) {
	tags, err := domain.NormalizeTags(candidates)
	if err != nil {
		return false, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cloneLocked()
	changed := false
	for _, t := range tags {
		if next.Add(t) {
			changed = true
		}
	}
	if !changed {
		return false, s.tags.Sorted(), nil
	}
	if err := s.commitLocked(ctx, next); err != nil {
		return false, nil, err
	}
	return true, next.Sorted(), nil
}

func (s *tagService) cloneLocked() domain.TagSet {
	return domain.NewTagSet(s.tags.Sorted()...)
}

// commitLocked persists next and only then makes it the registry.
func (s *tagService) commitLocked(ctx context.Context, next domain.TagSet) error {
	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	s.tags = next
	s.mirror(next.Sorted())
	return nil
}

func (s *tagService) mirror(sorted []string) {
	if s.store == nil {
		return
	}
	if slices.Equal(s.store.Snapshot().Tags, sorted) {
		return
	}
	_ = s.store.Mutate(func(st *domain.SessionState) error {
		st.Tags = sorted
		return nil
	})
}
