package cli

import (
	"strings"

	"draglist/internal/journal"

	"github.com/spf13/cobra"
)

func newJournalCmd(app *App) *cobra.Command {
	var limit int
	var path string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recent reorders from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := strings.TrimSpace(cfg.Journal.Path)
			if cmd.Flags().Changed("path") {
				p = strings.TrimSpace(path)
			}
			if p == "" {
				return writeErr(cmd, errNotConfigured("journal.path", "--path"))
			}

			j, err := journal.Open(cmdContext(cmd), p)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer j.Close()

			entries, err := j.Recent(cmdContext(cmd), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if entries == nil {
				entries = []journal.Entry{}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": p, "entries": entries},
				"meta": map[string]any{"limit": limit, "count": len(entries)},
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show, newest first (0 = all)")
	cmd.Flags().StringVar(&path, "path", "", "Journal file (overrides journal.path)")
	return cmd
}
