package blocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sitecounts/internal/block"
	"github.com/leapstack-labs/sitecounts/internal/ui/notifier"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// entryIDParam is the query parameter carrying the entry being viewed.
const entryIDParam = "post_id"

// Handlers provides HTTP handlers for the blocks feature.
type Handlers struct {
	registry     *block.Registry
	notifier     *notifier.Notifier
	logger       *slog.Logger
	previewBlock string
}

// NewHandlers creates a new Handlers instance. previewBlock names the block
// embedded in entry pages.
func NewHandlers(registry *block.Registry, notify *notifier.Notifier, logger *slog.Logger, previewBlock string) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		registry:     registry,
		notifier:     notify,
		logger:       logger,
		previewBlock: previewBlock,
	}
}

// BlockInfo describes a registered block in the listing.
type BlockInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// ListBlocks returns the registered block types as JSON.
func (h *Handlers) ListBlocks(w http.ResponseWriter, _ *http.Request) {
	names := h.registry.Names()
	infos := make([]BlockInfo, 0, len(names))
	for _, name := range names {
		t, ok := h.registry.Get(name)
		if !ok {
			continue
		}
		infos = append(infos, BlockInfo{Name: t.Name, Title: t.Title, Category: t.Category})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"blocks": infos}); err != nil {
		h.logger.Error("failed to encode block list", "error", err)
	}
}

// RenderBlock renders a block fragment. Query parameters become block
// attributes, except post_id which sets the entry being viewed.
func (h *Handlers) RenderBlock(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "namespace") + "/" + chi.URLParam(r, "name")

	ctx, err := withEntryFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	html, err := h.registry.Render(ctx, name, blockAttributes(r.URL.Query()))
	if err != nil {
		var unknown *block.UnknownBlockError
		if errors.As(err, &unknown) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// EntryPage renders a full page for an entry with the preview block embedded.
func (h *Handlers) EntryPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	attrs := blockAttributes(r.URL.Query())
	ctx := core.WithCurrentEntry(r.Context(), id)
	html, err := h.registry.Render(ctx, h.previewBlock, attrs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := entryPage(fmt.Sprintf("Entry %d", id), updatesURL(id, attrs), html).Render(ctx, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// EntryPageUpdates is the long-lived SSE endpoint for an entry page. It
// re-renders the preview block whenever content changes. The initial state
// is rendered by EntryPage, so nothing is sent until the first change.
// Query parameters are block attributes, as for EntryPage.
func (h *Handlers) EntryPageUpdates(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	attrs := blockAttributes(r.URL.Query())

	sse := datastar.NewSSE(w, r)

	updates, cancel := h.notifier.Subscribe()
	defer cancel()

	ctx := core.WithCurrentEntry(r.Context(), id)
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			html, err := h.registry.Render(ctx, h.previewBlock, attrs)
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElementTempl(previewComponent(html)); err != nil {
				h.logger.Debug("preview patch failed", "entry", id, "error", err)
				return
			}
		}
	}
}

// blockAttributes turns query parameters into block attributes. post_id is
// not an attribute and only the first value of a key is used.
func blockAttributes(query url.Values) block.Attributes {
	attrs := block.Attributes{}
	for key, values := range query {
		if key == entryIDParam || len(values) == 0 {
			continue
		}
		attrs[key] = values[0]
	}
	return attrs
}

// updatesURL is the SSE endpoint for an entry page, carrying attrs so live
// updates render the block the page was rendered with.
func updatesURL(id int64, attrs block.Attributes) string {
	u := fmt.Sprintf("/entries/%d/updates", id)
	if len(attrs) == 0 {
		return u
	}
	query := url.Values{}
	for k, v := range attrs {
		query.Set(k, v)
	}
	return u + "?" + query.Encode()
}

func parseEntryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", raw)
	}
	return id, nil
}

func withEntryFromQuery(r *http.Request) (context.Context, error) {
	raw := r.URL.Query().Get(entryIDParam)
	if raw == "" {
		return r.Context(), nil
	}
	id, err := parseEntryID(raw)
	if err != nil {
		return nil, err
	}
	return core.WithCurrentEntry(r.Context(), id), nil
}
