package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sitecounts/internal/block"
	"github.com/leapstack-labs/sitecounts/internal/cli/config"
	"github.com/leapstack-labs/sitecounts/internal/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Store  *state.SQLiteStore
}

// NewCommandContext opens the content store described by the command's
// config. The returned cleanup func must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Store:  store,
	}, cleanup, nil
}

// NewRegistry returns a registry with the site counts block registered and
// initialized against the command's store.
func (c *CommandContext) NewRegistry() (*block.Registry, error) {
	reg := block.NewRegistry()
	sitecounts.New(sitecounts.Config{
		Store:  c.Store,
		Logger: c.Logger,
		Locale: c.Cfg.Locale,
	}).Init(reg)

	if err := reg.Init(); err != nil {
		return nil, err
	}
	return reg, nil
}

// ImportFixtures loads every fixture file in the configured directory.
func (c *CommandContext) ImportFixtures(ctx context.Context) error {
	f, err := state.LoadFixtureDir(c.Cfg.FixturesDir)
	if err != nil {
		return err
	}
	return c.Store.ImportFixture(ctx, f)
}

// openStore opens and migrates the content store.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	if cfg.StatePath != ":memory:" {
		stateDir := filepath.Dir(cfg.StatePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
