package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sitecounts/internal/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the block preview server",
		Long: `Start a local web server that renders blocks.

Routes:
- GET /blocks                               registered blocks (JSON)
- GET /blocks/{namespace}/{name}/render     block fragment; query params are attributes,
                                            post_id sets the entry being viewed
- GET /entries/{id}                         preview page for an entry, live updated
                                            when fixtures change`,
		Example: `  # Start on the default port
  sitecounts serve

  # Start on a custom port without watching fixtures
  sitecounts serve --port 3000 --watch=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8790)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload fixtures when they change")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	srvCfg := cmdCtx.Cfg.GetServerConfig()
	port := srvCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := srvCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	if _, err := os.Stat(cmdCtx.Cfg.FixturesDir); err == nil {
		if err := cmdCtx.ImportFixtures(cmd.Context()); err != nil {
			return fmt.Errorf("failed to import fixtures: %w", err)
		}
	} else {
		watch = false
	}

	reg, err := cmdCtx.NewRegistry()
	if err != nil {
		return err
	}

	server := ui.NewServer(ui.Config{
		Registry:     reg,
		Port:         port,
		Watch:        watch,
		FixturesDir:  cmdCtx.Cfg.FixturesDir,
		PreviewBlock: sitecounts.BlockName,
		Reload:       cmdCtx.ImportFixtures,
		Logger:       cmdCtx.Logger,
	})

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving blocks on http://localhost:%d\n", port)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}
