// Package sitecounts implements the site counts block: published entry counts
// per public content type, the current entry ID, and a short list of recent
// entries tagged "foo" in category "baz".
package sitecounts

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/sitecounts/internal/block"
	"github.com/leapstack-labs/sitecounts/internal/sitecounts/messages"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

//go:embed block.json
var metadataJSON []byte

// BlockName is the registered name of the block.
const BlockName = "sitecounts/site-counts"

// Recent entries query. The filter values are fixed.
const (
	RecentTag      = "foo"
	RecentCategory = "baz"

	// RecentQueryLimit leaves room for the current entry to be dropped.
	RecentQueryLimit   = 6
	RecentDisplayLimit = 5
)

// RecentTypes are the content types searched for recent entries.
var RecentTypes = []string{"post", "page"}

// RecentEntriesQuery returns the query used for the recent entries list.
func RecentEntriesQuery() core.EntryQuery {
	return core.EntryQuery{
		Types:    append([]string(nil), RecentTypes...),
		Status:   []string{core.StatusAny},
		Tag:      RecentTag,
		Category: RecentCategory,
		Limit:    RecentQueryLimit,
	}
}

// Metadata returns the block's JSON metadata.
func Metadata() []byte {
	return append([]byte(nil), metadataJSON...)
}

// TypeCount is the publication count of one content type.
type TypeCount struct {
	Type  core.ContentType
	Count int
}

// PublicationCounts returns published plus inherited entry counts for every
// public content type. When a single type cannot be counted it is left out
// and its error is joined into the returned error alongside the other counts.
func PublicationCounts(ctx context.Context, store core.ContentStore) ([]TypeCount, error) {
	types, err := store.ListContentTypes(ctx, core.ContentTypeFilter{PublicOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list content types: %w", err)
	}

	counts := make([]TypeCount, 0, len(types))
	var errs []error
	for _, ct := range types {
		sc, err := store.CountEntries(ctx, ct.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("count %s: %w", ct.Name, err))
			continue
		}
		counts = append(counts, TypeCount{Type: ct, Count: sc.Published()})
	}
	return counts, errors.Join(errs...)
}

// Config configures a Renderer.
type Config struct {
	Store  core.ContentStore
	Logger *slog.Logger
	// Locale selects translations; empty means English.
	Locale string
}

// Renderer renders the site counts block from a content store.
type Renderer struct {
	store   core.ContentStore
	logger  *slog.Logger
	printer *messages.Printer
}

// New creates a Renderer.
func New(cfg Config) *Renderer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		store:   cfg.Store,
		logger:  logger,
		printer: messages.NewPrinter(cfg.Locale),
	}
}

// Init queues registration of the block for when the registry initializes.
func (r *Renderer) Init(reg *block.Registry) {
	reg.OnInit(r.Register)
}

// Register registers the block type and its render callback.
func (r *Renderer) Register(reg *block.Registry) error {
	return reg.RegisterFromMetadata(metadataJSON, r.Render)
}

// Render renders the block to an HTML fragment. The entry being viewed, if
// any, is read from ctx (see core.WithCurrentEntry).
//
// Store failures never fail the render: they are logged and the affected
// section is left empty.
func (r *Renderer) Render(ctx context.Context, attrs block.Attributes) (string, error) {
	var sb strings.Builder
	if err := r.Component(ctx, attrs).Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Component returns the block as a templ component for embedding in pages.
func (r *Renderer) Component(ctx context.Context, attrs block.Attributes) templ.Component {
	return BlockComponent(r.BuildView(ctx, attrs))
}

// BuildView queries the store and assembles the block's view.
func (r *Renderer) BuildView(ctx context.Context, attrs block.Attributes) View {
	v := View{
		ClassName:     attrs.Get("className"),
		CountsHeading: r.printer.Sprintf(messages.PostCounts),
	}

	counts, err := PublicationCounts(ctx, r.store)
	if err != nil {
		r.logger.Warn("content counts incomplete", "block", BlockName, "error", err)
	}
	for _, c := range counts {
		v.Counts = append(v.Counts, r.printer.EntryCount(c.Count, c.Type.Labels.Singular, c.Type.Labels.Plural))
	}

	currentID, hasCurrent := core.CurrentEntry(ctx)
	if hasCurrent {
		v.CurrentEntry = r.printer.Sprintf(messages.CurrentPostID, currentID)
	}

	entries, err := r.store.QueryEntries(ctx, RecentEntriesQuery())
	if err != nil {
		r.logger.Warn("recent entries query failed", "block", BlockName, "error", err)
		return v
	}
	if len(entries) == 0 {
		return v
	}

	v.ShowRecent = true
	v.RecentHeading = r.printer.Sprintf(messages.RecentEntries)
	for _, e := range Truncate(ExcludeEntry(entries, currentID), RecentDisplayLimit) {
		v.Recent = append(v.Recent, e.Title)
	}

	r.logger.Debug("built block view",
		"block", BlockName,
		"content_types", len(v.Counts),
		"recent", len(v.Recent),
		"current_entry", currentID,
	)
	return v
}
