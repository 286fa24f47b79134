package services

import (
	"context"
	"log/slog"
	"time"
)

// Saver is the part of domain.SessionStore the auto-saver needs.
type Saver interface {
	Save(force bool) error
}

// AutoSaver checkpoints a session at a fixed interval while it is dirty.
type AutoSaver struct {
	Store    Saver
	Interval time.Duration
	Logger   *slog.Logger

	// NewTicker creates a ticker channel and its stop function.
	// If nil, time.NewTicker is used.
	NewTicker func(d time.Duration) (tick <-chan time.Time, stop func())
}

// Run saves on every tick until ctx is cancelled, then saves one last time.
// Failed saves are logged and retried on the next tick. It always returns nil.
func (a *AutoSaver) Run(ctx context.Context) error {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := a.Interval
	if interval < time.Second {
		interval = time.Second
	}
	newTicker := a.NewTicker
	if newTicker == nil {
		newTicker = defaultNewTicker
	}

	ch, stop := newTicker(interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			if err := a.Store.Save(false); err != nil {
				logger.Error("final auto-save failed", "err", err)
			}
			return nil
		case <-ch:
			if err := a.Store.Save(false); err != nil {
				logger.Error("auto-save failed, will retry", "err", err)
			}
		}
	}
}

func defaultNewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
