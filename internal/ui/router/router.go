// Package router sets up HTTP routes for the preview server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sitecounts/internal/block"
	blocksFeature "github.com/leapstack-labs/sitecounts/internal/ui/features/blocks"
	"github.com/leapstack-labs/sitecounts/internal/ui/notifier"
	"github.com/leapstack-labs/sitecounts/internal/ui/resources"
)

// SetupRoutes configures all routes for the preview server.
func SetupRoutes(
	router chi.Router,
	registry *block.Registry,
	notify *notifier.Notifier,
	logger *slog.Logger,
	previewBlock string,
) error {
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	router.Handle("/static/*", resources.Handler())

	return blocksFeature.SetupRoutes(router, registry, notify, logger, previewBlock)
}
