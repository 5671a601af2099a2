package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sitecounts/internal/cli/config"
	"github.com/leapstack-labs/sitecounts/internal/testutil"
)

const testFixture = `content_types:
  - name: product
    public: true
    labels:
      singular: Product
      plural: Products
entries:
  - id: 1
    title: Hello world
    type: post
    status: publish
    published_at: 2024-01-01T10:00:00Z
    tags: [foo]
    categories: [baz]
  - id: 2
    title: Second <b>post</b>
    type: post
    status: publish
    published_at: 2024-01-02T10:00:00Z
    tags: [foo]
    categories: [baz]
  - id: 3
    title: Widget
    type: product
    status: publish
    published_at: 2024-01-03T10:00:00Z
`

// setupTestProject writes a fixtures directory and returns a config
// pointing at a fresh database inside a temp dir.
func setupTestProject(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	fixturesDir := filepath.Join(dir, "fixtures")
	require.NoError(t, os.MkdirAll(fixturesDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(fixturesDir, "content.yaml"), []byte(testFixture), 0600))

	cfg := config.Default()
	cfg.StatePath = filepath.Join(dir, ".sitecounts", "content.db")
	cfg.FixturesDir = fixturesDir
	return cfg
}

// executeCommand runs cmd with cfg in its context and returns stdout.
func executeCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{name: "default version", version: "0.1.0", want: "sitecounts v0.1.0\n"},
		{name: "dev version", version: "dev", want: "sitecounts vdev\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewVersionCommand("test"), use: "version"},
		{cmd: NewRenderCommand(), use: "render", flags: []string{"block", "class-name", "post-id", "attr", "format"}},
		{cmd: NewCountsCommand(), use: "counts"},
		{cmd: NewSeedCommand(), use: "seed [fixture files...]"},
		{cmd: NewServeCommand(), use: "serve", flags: []string{"port", "watch"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestSeedCommand(t *testing.T) {
	cfg := setupTestProject(t)

	out, err := executeCommand(t, NewSeedCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 1 content types and 3 entries")
	assert.FileExists(t, cfg.StatePath)
}

func TestSeedCommand_ExplicitFiles(t *testing.T) {
	cfg := setupTestProject(t)

	out, err := executeCommand(t, NewSeedCommand(), cfg, filepath.Join(cfg.FixturesDir, "content.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "3 entries")

	_, err = executeCommand(t, NewSeedCommand(), cfg, filepath.Join(cfg.FixturesDir, "missing.yaml"))
	assert.Error(t, err)
}

func TestRenderCommand(t *testing.T) {
	cfg := setupTestProject(t)
	_, err := executeCommand(t, NewSeedCommand(), cfg)
	require.NoError(t, err)

	t.Run("default", func(t *testing.T) {
		out, err := executeCommand(t, NewRenderCommand(), cfg)
		require.NoError(t, err)

		assert.Contains(t, out, `<div class="">`)
		assert.Contains(t, out, "<li>There are 2 Posts.</li>")
		assert.Contains(t, out, "<li>There is 1 Product.</li>")
		assert.Contains(t, out, "<p></p>")
		assert.Contains(t, out, "<li>Second &lt;b&gt;post&lt;/b&gt;</li>")
		assert.Contains(t, out, "<li>Hello world</li>")
	})

	t.Run("current entry and class name", func(t *testing.T) {
		out, err := executeCommand(t, NewRenderCommand(), cfg, "--post-id", "2", "--class-name", "wide")
		require.NoError(t, err)

		assert.Contains(t, out, `<div class="wide">`)
		assert.Contains(t, out, "<p>The current post ID is 2.</p>")
		assert.NotContains(t, out, "Second &lt;b&gt;post")
		assert.Contains(t, out, "<li>Hello world</li>")
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := executeCommand(t, NewRenderCommand(), cfg, "--format", "markdown")
		require.NoError(t, err)

		assert.Contains(t, out, "Post Counts")
		assert.Contains(t, out, "There are 2 Posts.")
		assert.Contains(t, out, "Hello world")
		assert.NotContains(t, out, "<li>")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := executeCommand(t, NewRenderCommand(), cfg, "--format", "pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown format")
	})

	t.Run("unknown block", func(t *testing.T) {
		_, err := executeCommand(t, NewRenderCommand(), cfg, "--block", "other/block")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown block type")
	})
}

func TestCountsCommand(t *testing.T) {
	cfg := setupTestProject(t)
	_, err := executeCommand(t, NewSeedCommand(), cfg)
	require.NoError(t, err)

	out, err := executeCommand(t, NewCountsCommand(), cfg)
	require.NoError(t, err)

	for _, want := range []string{"post", "Posts", "There are 2 Posts.", "product", "There is 1 Product.", "There are 0 Pages."} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "revision")
	assert.False(t, isTerminal(new(bytes.Buffer)))
}

func TestCountsCommand_French(t *testing.T) {
	cfg := setupTestProject(t)
	cfg.Locale = "fr"
	_, err := executeCommand(t, NewSeedCommand(), cfg)
	require.NoError(t, err)

	out, err := executeCommand(t, NewCountsCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Il y a 2 Posts.")
}

func TestOpenStore_MemoryPath(t *testing.T) {
	cfg := config.Default()
	cfg.StatePath = ":memory:"

	store, err := openStore(cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Positive(t, version)
}
