// Package blocks serves rendered blocks and live entry previews.
package blocks

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sitecounts/internal/block"
	"github.com/leapstack-labs/sitecounts/internal/ui/notifier"
)

// SetupRoutes configures routes for the blocks feature.
func SetupRoutes(
	router chi.Router,
	registry *block.Registry,
	notify *notifier.Notifier,
	logger *slog.Logger,
	previewBlock string,
) error {
	handlers := NewHandlers(registry, notify, logger, previewBlock)

	router.Get("/blocks", handlers.ListBlocks)
	router.Get("/blocks/{namespace}/{name}/render", handlers.RenderBlock)
	router.Get("/entries/{id}", handlers.EntryPage)
	router.Get("/entries/{id}/updates", handlers.EntryPageUpdates)

	return nil
}
