package cli

import (
	"fmt"
	"sort"

	"draglist/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var html bool
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				topics := docs.Topics()
				sort.Strings(topics)
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": topics}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("%w (run `draglist docs` to list topics)", errNotFound("docs topic", topic)))
			}

			switch {
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			case html:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), docs.RenderHTML(body))
				return err
			}

			rendered, err := docs.RenderTerminal(body, width, "dark")
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().BoolVar(&html, "html", false, "Print an HTML fragment")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for terminal rendering")
	cmd.MarkFlagsMutuallyExclusive("raw", "html")

	return cmd
}
