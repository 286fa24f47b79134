package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"imagetagger/config"
	"imagetagger/internal/adapters/imaging"
	delivery "imagetagger/internal/delivery/http"
	"imagetagger/internal/delivery/http/controllers"
	"imagetagger/internal/delivery/ws"
	"imagetagger/internal/repository/filestore"
	"imagetagger/internal/services"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// app is one fully wired tagging session.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *filestore.SessionStore
	ws       *ws.Server
	handler  http.Handler
	autoSave *services.AutoSaver
}

// run builds the application for cfg and serves it until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	logger := config.NewLogger(logOut, cfg.Environment, cfg.LogLevel, cfg.Verbose)
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	logger.Info("server listening", "addr", "http://"+ln.Addr().String(), "docs", "http://"+ln.Addr().String()+"/swagger/index.html")
	return a.serve(ctx, ln)
}

// newApp loads or creates the session, processes every image in the input
// directory and wires the HTTP and websocket layers.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	outputDir := cfg.ResolvedOutputDir()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	store := filestore.NewSessionStore(cfg.SessionPath(), 0, logger)
	if cfg.Resume {
		st := store.Load()
		logger.Info("session resumed", "path", store.Path(), "processed", st.Stats.ProcessedImages)
	}

	tagRepo := filestore.NewTagFileRepository(cfg.TagsPath(), logger)
	initial, err := tagRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	tagService := services.NewTagService(tagRepo, store, initial, logger)

	imageService := services.NewImageService(services.ImageConfig{
		InputDir:      cfg.InputDir,
		OutputDir:     outputDir,
		Prefix:        cfg.Prefix,
		ThumbnailSize: cfg.ThumbnailSize,
	}, services.ImageDeps{
		Store:       store,
		Sidecars:    filestore.NewSidecarRepository(),
		TagService:  tagService,
		Scanner:     imaging.NewScanner(logger),
		Copier:      imaging.Copier{},
		Thumbnailer: imaging.Thumbnailer{},
		Logger:      logger,
	})
	sessionService := services.NewSessionService(store, imageService, logger)

	images, err := imageService.Scan(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("images found", "input", cfg.InputDir, "count", len(images))
	processed, err := imageService.ProcessAll(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("images processed", "output", outputDir, "processed", processed)
	if err := store.Save(true); err != nil {
		logger.Warn("initial session save failed", "err", err)
	}

	hub := ws.NewHub(logger)
	dispatcher := ws.NewDispatcher(logger, imageService, tagService, sessionService, hub)
	wsServer := ws.NewServer(ws.Config{
		HeartbeatTimeout: cfg.HeartbeatInterval(),
		AllowedOrigins:   cfg.AllowedOrigins,
	}, hub, dispatcher, logger)

	router := delivery.NewRouter(
		controllers.NewImageController(logger, imageService, dispatcher),
		controllers.NewTagController(logger, tagService, dispatcher),
		controllers.NewStatusController(logger, sessionService),
		wsServer.Handler(),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		ws:      wsServer,
		handler: delivery.NewHandler(logger, cfg.AllowedOrigins, router),
		autoSave: &services.AutoSaver{
			Store:    store,
			Interval: cfg.AutoSaveInterval(),
			Logger:   logger,
		},
	}, nil
}

// serve runs the HTTP server and the auto-saver on ln until ctx is done,
// then shuts down and writes a final checkpoint.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.autoSave.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.ws.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("http shutdown", "err", err)
		}
		return nil
	})

	err := g.Wait()
	if saveErr := a.store.Save(true); saveErr != nil {
		a.logger.Error("final session save failed", "err", saveErr)
		err = errors.Join(err, saveErr)
	} else {
		a.logger.Info("session saved", "path", a.store.Path())
	}
	return err
}
