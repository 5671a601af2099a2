// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sitecounts/internal/block"
	"github.com/leapstack-labs/sitecounts/internal/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/state"
	"github.com/leapstack-labs/sitecounts/internal/testutil"
	"github.com/leapstack-labs/sitecounts/internal/ui/notifier"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store    *state.SQLiteStore
	Registry *block.Registry
	Notifier *notifier.Notifier
}

// SetupTestFixture creates an in-memory store holding entries, and a
// registry with the site counts block registered against it.
func SetupTestFixture(t *testing.T, entries ...core.Entry) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)

	store := state.NewSQLiteStore(logger)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.InitSchema())
	t.Cleanup(func() {
		_ = store.Close()
	})

	require.NoError(t, store.ImportFixture(context.Background(), &state.Fixture{Entries: entries}))

	registry := block.NewRegistry()
	sitecounts.New(sitecounts.Config{Store: store, Logger: logger}).Init(registry)
	require.NoError(t, registry.Init())

	return &TestFixture{
		Store:    store,
		Registry: registry,
		Notifier: notifier.New(),
	}
}

// TaggedEntry builds a published entry tagged foo in category baz.
func TaggedEntry(id int64, title string) core.Entry {
	return core.Entry{
		ID:         id,
		Title:      title,
		Type:       "post",
		Status:     core.StatusPublish,
		Tags:       []string{sitecounts.RecentTag},
		Categories: []string{sitecounts.RecentCategory},
	}
}

// RequestWithPathParams wraps a request with chi URL params.
func RequestWithPathParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
