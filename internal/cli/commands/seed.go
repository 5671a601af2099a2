package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sitecounts/internal/state"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [fixture files...]",
		Short: "Load content from YAML fixtures",
		Long: `Load content types and entries from YAML fixture files into the content
store. Existing entries are replaced; content types are updated in place.

Without arguments every .yaml/.yml file in the fixtures directory is loaded.`,
		Example: `  # Load all fixtures from ./fixtures
  sitecounts seed

  # Load specific files
  sitecounts seed fixtures/posts.yaml fixtures/pages.yaml`,
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var fixture *state.Fixture
	if len(args) == 0 {
		fixture, err = state.LoadFixtureDir(cmdCtx.Cfg.FixturesDir)
		if err != nil {
			return err
		}
	} else {
		fixture = &state.Fixture{}
		for _, path := range args {
			f, err := state.LoadFixtureFile(path)
			if err != nil {
				return err
			}
			fixture.ContentTypes = append(fixture.ContentTypes, f.ContentTypes...)
			fixture.Entries = append(fixture.Entries, f.Entries...)
		}
	}

	if err := cmdCtx.Store.ImportFixture(cmd.Context(), fixture); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d content types and %d entries into %s\n",
		len(fixture.ContentTypes), len(fixture.Entries), cmdCtx.Cfg.StatePath)
	return nil
}
