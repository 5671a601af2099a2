// Package ui provides the block preview server.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sitecounts/internal/block"
	"github.com/leapstack-labs/sitecounts/internal/ui/notifier"
	"github.com/leapstack-labs/sitecounts/internal/ui/router"
)

// ReloadFunc reloads content, typically by re-importing fixtures.
type ReloadFunc func(ctx context.Context) error

// Server is the preview server.
type Server struct {
	registry     *block.Registry
	port         int
	watch        bool
	fixturesDir  string
	previewBlock string
	reload       ReloadFunc
	logger       *slog.Logger
	notifier     *notifier.Notifier

	// reloadMu serializes reloads; debounce timers fire on their own goroutines.
	reloadMu sync.Mutex
}

// Config holds configuration for the preview server.
type Config struct {
	Registry *block.Registry
	Port     int
	// Watch re-imports fixtures from FixturesDir when they change.
	Watch        bool
	FixturesDir  string
	PreviewBlock string
	Reload       ReloadFunc
	Logger       *slog.Logger
}

// NewServer creates a new preview server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		registry:     cfg.Registry,
		port:         cfg.Port,
		watch:        cfg.Watch && cfg.Reload != nil,
		fixturesDir:  cfg.FixturesDir,
		previewBlock: cfg.PreviewBlock,
		reload:       cfg.Reload,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler returns the server's routes with middleware applied.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.registry, s.notifier, s.logger, s.previewBlock); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting preview server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFixtures(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down preview server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for live preview updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Reload re-imports content and pushes the change to live previews.
// Concurrent calls run one at a time.
func (s *Server) Reload(ctx context.Context) error {
	if s.reload == nil {
		return nil
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if err := s.reload(ctx); err != nil {
		return err
	}
	s.notifier.Broadcast()
	return nil
}

// watchFixtures reloads content when a fixture file changes.
func (s *Server) watchFixtures(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.fixturesDir); err != nil {
		s.logger.Error("failed to watch fixtures directory", "dir", s.fixturesDir, "error", err)
		// Keep serving without live reload.
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isFixtureEvent(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("fixture changed, reloading", "file", event.Name)
				if err := s.Reload(ctx); err != nil {
					s.logger.Error("reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func isFixtureEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
