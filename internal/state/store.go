// Package state provides the SQLite-backed content store.
// It holds content types, entries and their taxonomy terms, and serves the
// read-only queries the site counts block renders from.
package state

import "github.com/leapstack-labs/sitecounts/pkg/core"

// Taxonomy names stored in the terms table.
const (
	TaxonomyTag      = "post_tag"
	TaxonomyCategory = "category"
)

// Store is the content capability implemented by SQLiteStore.
type Store = core.ContentStore

var _ Store = (*SQLiteStore)(nil)
