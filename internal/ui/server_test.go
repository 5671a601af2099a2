package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sitecounts/internal/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/testutil"
	"github.com/leapstack-labs/sitecounts/internal/ui/features"
)

func TestServer_Handler(t *testing.T) {
	fixture := features.SetupTestFixture(t, features.TaggedEntry(1, "Hello"))
	srv := NewServer(Config{
		Registry:     fixture.Registry,
		PreviewBlock: sitecounts.BlockName,
		Logger:       testutil.NewTestLogger(t),
	})

	handler, err := srv.Handler()
	require.NoError(t, err)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{path: "/healthz", wantStatus: http.StatusOK, wantBody: "OK"},
		{path: "/blocks", wantStatus: http.StatusOK, wantBody: sitecounts.BlockName},
		{path: "/blocks/sitecounts/site-counts/render", wantStatus: http.StatusOK, wantBody: "<li>Hello</li>"},
		{path: "/entries/1", wantStatus: http.StatusOK, wantBody: "The current post ID is 1."},
		{path: "/static/preview.css", wantStatus: http.StatusOK, wantBody: "#block-preview"},
		{path: "/missing", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServer_ReloadBroadcasts(t *testing.T) {
	reloads := 0
	srv := NewServer(Config{
		Reload: func(context.Context) error {
			reloads++
			return nil
		},
	})

	updates, cancel := srv.Notifier().Subscribe()
	defer cancel()

	require.NoError(t, srv.Reload(context.Background()))
	assert.Equal(t, 1, reloads)
	assert.Len(t, updates, 1)
}

func TestServer_ReloadErrorDoesNotBroadcast(t *testing.T) {
	srv := NewServer(Config{
		Reload: func(context.Context) error { return errors.New("bad fixture") },
	})

	updates, cancel := srv.Notifier().Subscribe()
	defer cancel()

	assert.ErrorContains(t, srv.Reload(context.Background()), "bad fixture")
	assert.Len(t, updates, 0)
}

func TestIsFixtureEvent(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{event: fsnotify.Event{Name: "content.yaml", Op: fsnotify.Write}, want: true},
		{event: fsnotify.Event{Name: "content.yml", Op: fsnotify.Create}, want: true},
		{event: fsnotify.Event{Name: "old.yaml", Op: fsnotify.Remove}, want: true},
		{event: fsnotify.Event{Name: "content.yaml", Op: fsnotify.Chmod}, want: false},
		{event: fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, isFixtureEvent(tt.event))
		})
	}
}

func TestServer_ReloadsDoNotOverlap(t *testing.T) {
	var active, maxActive atomic.Int32
	srv := NewServer(Config{
		Reload: func(context.Context) error {
			n := active.Add(1)
			defer active.Add(-1)
			for {
				m := maxActive.Load()
				if n <= m || maxActive.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return nil
		},
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, srv.Reload(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive.Load())
}
