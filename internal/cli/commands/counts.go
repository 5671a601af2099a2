package commands

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/sitecounts/internal/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/sitecounts/messages"
)

// NewCountsCommand creates the counts command.
func NewCountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show published entry counts per content type",
		Long: `Show the published entry count (publish + inherit) of every public
content type, as displayed by the site counts block.

Output is a table on a terminal and Markdown when piped.`,
		Args: cobra.NoArgs,
		RunE: runCounts,
	}
}

func runCounts(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	counts, countErr := sitecounts.PublicationCounts(cmd.Context(), cmdCtx.Store)
	printer := messages.NewPrinter(cmdCtx.Cfg.Locale)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Singular", "Plural", "Published", "Sentence"})
	for _, c := range counts {
		t.AppendRow(table.Row{
			c.Type.Name,
			c.Type.Labels.Singular,
			c.Type.Labels.Plural,
			c.Count,
			printer.EntryCount(c.Count, c.Type.Labels.Singular, c.Type.Labels.Plural),
		})
	}
	if isTerminal(cmd.OutOrStdout()) {
		t.Render()
	} else {
		t.RenderMarkdown()
	}

	return countErr
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
