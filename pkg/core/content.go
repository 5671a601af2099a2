package core

import (
	"context"
	"time"
)

// Entry statuses understood by the store.
const (
	StatusPublish   = "publish"
	StatusInherit   = "inherit"
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPrivate   = "private"
	StatusFuture    = "future"
	StatusTrash     = "trash"
	StatusAutoDraft = "auto-draft"

	// StatusAny matches every status except those excluded from listings.
	StatusAny = "any"
)

// ExcludedFromAny lists statuses that a StatusAny query never returns.
var ExcludedFromAny = []string{StatusTrash, StatusAutoDraft}

// Labels holds the display names of a content type.
type Labels struct {
	Singular string `yaml:"singular" json:"singular"`
	Plural   string `yaml:"plural" json:"plural"`
}

// ContentType describes a category of publishable entries such as "post" or "page".
type ContentType struct {
	Name   string `yaml:"name" json:"name"`
	Public bool   `yaml:"public" json:"public"`
	Labels Labels `yaml:"labels" json:"labels"`
}

// ContentTypeFilter restricts ListContentTypes.
type ContentTypeFilter struct {
	PublicOnly bool
}

// StatusCounts maps an entry status to the number of entries in it.
type StatusCounts map[string]int

// Published returns the number of entries visible as published,
// which includes attachments inheriting their parent's status.
func (c StatusCounts) Published() int {
	return c[StatusPublish] + c[StatusInherit]
}

// Entry is a single publishable unit of content.
type Entry struct {
	ID          int64     `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Type        string    `yaml:"type" json:"type"`
	Status      string    `yaml:"status" json:"status"`
	PublishedAt time.Time `yaml:"published_at" json:"published_at"`
	Tags        []string  `yaml:"tags" json:"tags,omitempty"`
	Categories  []string  `yaml:"categories" json:"categories,omitempty"`
}

// EntryQuery selects entries by type, status and taxonomy terms.
// Results are ordered newest first.
type EntryQuery struct {
	Types []string
	// Status is either StatusAny or a list of explicit statuses.
	Status   []string
	Tag      string
	Category string
	Limit    int
}

// ContentStore is the read-only content capability a block renders from.
type ContentStore interface {
	// ListContentTypes returns content types in registration order.
	ListContentTypes(ctx context.Context, filter ContentTypeFilter) ([]ContentType, error)

	// CountEntries returns entry counts per status for a content type.
	CountEntries(ctx context.Context, contentType string) (StatusCounts, error)

	// QueryEntries returns entries matching the query.
	QueryEntries(ctx context.Context, q EntryQuery) ([]Entry, error)
}

type currentEntryKey struct{}

// WithCurrentEntry returns a context carrying the ID of the entry being viewed.
func WithCurrentEntry(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, currentEntryKey{}, id)
}

// CurrentEntry returns the ID of the entry being viewed, if any.
// A zero ID is treated as no current entry.
func CurrentEntry(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(currentEntryKey{}).(int64)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
