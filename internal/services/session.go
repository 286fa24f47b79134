package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"imagetagger/internal/domain"
)

type sessionService struct {
	store  domain.SessionStore
	images domain.ImageService
	logger *slog.Logger
}

// NewSessionService creates a SessionService over store. images is used to
// validate positions.
func NewSessionService(store domain.SessionStore, images domain.ImageService, logger *slog.Logger) domain.SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{store: store, images: images, logger: logger}
}

func (s *sessionService) Status(ctx context.Context) domain.SessionStatus {
	snap := s.store.Snapshot()
	return domain.SessionStatus{
		Status:          "ok",
		TotalImages:     snap.Stats.TotalImages,
		ProcessedImages: snap.Stats.ProcessedImages,
		CurrentPosition: snap.CurrentPosition,
		LastUpdated:     snap.LastUpdated.String(),
		Dirty:           s.store.Dirty(),
	}
}

// Checkpoint forces a save and returns the time it was written.
func (s *sessionService) Checkpoint(ctx context.Context) (time.Time, error) {
	if err := s.store.Save(true); err != nil {
		s.logger.ErrorContext(ctx, "session save failed", "err", err)
		return time.Time{}, fmt.Errorf("checkpoint session: %w", err)
	}
	at := s.store.Snapshot().LastUpdated.Time
	s.logger.InfoContext(ctx, "session saved", "at", at)
	return at, nil
}

func (s *sessionService) SetPosition(ctx context.Context, imageID string) error {
	if imageID != "" {
		if _, err := domain.ParseImageID(imageID, s.images.Count()); err != nil {
			return err
		}
	}
	return s.store.Mutate(func(st *domain.SessionState) error {
		st.SetPosition(imageID)
		return nil
	})
}
