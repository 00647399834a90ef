package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/intellibrowse/internal/history"
	"github.com/diogo/intellibrowse/internal/render"
)

type historyOptions struct {
	format string
	output string
	search string
}

// NewHistoryCmd creates the history command
func NewHistoryCmd(deps *Dependencies) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Export or search your conversation",
		Long: `Fetch your conversation from the server and print it as markdown or
JSON, or search it with --search.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, deps, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "markdown", "Output format (markdown, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&opts.search, "search", "", "List turns containing this text")
	return cmd
}

func runHistory(cmd *cobra.Command, deps *Dependencies, opts historyOptions) error {
	format, err := history.ParseExportFormat(opts.format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ok, err := guard(ctx, deps)
	if !ok {
		return err
	}

	turns, err := deps.Client.GetChats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if opts.search != "" {
		results := history.Search(turns, opts.search)
		if len(results) == 0 {
			fmt.Fprintln(deps.Out, "No matching turns found.")
			return nil
		}

		w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "TURN\tFIELD\tMATCH")
		_, _ = fmt.Fprintln(w, "----\t-----\t-----")
		for _, r := range results {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", r.Index+1, r.MatchField, r.MatchSnippet)
		}
		return w.Flush()
	}

	if len(turns) == 0 && opts.output == "" {
		fmt.Fprintln(deps.Out, "No conversation history found.")
		return nil
	}

	exportOpts := history.DefaultExportOptions()
	exportOpts.Format = format
	if policy, err := render.ParseHTMLPolicy(deps.Config.HTMLPolicy); err == nil {
		exportOpts.HTML = policy
	}

	data, err := history.Export(turns, exportOpts)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintln(deps.Err, successStyle.Render(fmt.Sprintf("✓ Exported %d turns to %s", len(turns), opts.output)))
		return nil
	}

	_, err = deps.Out.Write(data)
	return err
}
