package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"draglist/internal/format"
	"draglist/internal/journal"
	"draglist/internal/logging"
	"draglist/internal/model"
	"draglist/internal/store"
	"draglist/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	PrettyJSON bool
	LogFile    string
	LogLevel   string

	// Run flags; only applied when set on the command line.
	Count       int
	ItemHeight  int
	Gap         int
	JournalPath string

	log       *slog.Logger
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "draglist",
		Short:        "A terminal list you reorder by dragging rows with the mouse",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the list (100 items)
  draglist

  # A shorter list with taller rows and no gap
  draglist --count 12 --item-height 3 --gap 0

  # Journal every reorder, then read it back
  draglist --journal ~/.draglist/journal.sqlite
  draglist journal --limit 5

  # Run the list in a browser terminal
  draglist serve --addr 127.0.0.1:3334
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive list.
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := app.config(cmd)
		if err != nil {
			return writeErr(cmd, err)
		}
		lvl, err := store.ParseLogLevel(cfg.Log.Level)
		if err != nil {
			return writeErr(cmd, err)
		}
		l, c, err := logging.New(cfg.Log.File, lvl)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log, app.logCloser = l, c
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("DRAGLIST_CONFIG_DIR", ""), "Config directory (default ~/.draglist)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write JSON logs to this file (overrides log.file)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides log.level)")

	cmd.Flags().IntVar(&app.Count, "count", 0, "Number of seeded items (overrides list.count)")
	cmd.Flags().IntVar(&app.ItemHeight, "item-height", 0, "Row height in lines (overrides list.item_height)")
	cmd.Flags().IntVar(&app.Gap, "gap", 0, "Lines between rows (overrides list.gap)")
	cmd.Flags().StringVar(&app.JournalPath, "journal", "", "Record reorders to this sqlite file (overrides journal.path)")

	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newJournalCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

// config loads the merged configuration and applies flags that were set on
// the command line.
func (app *App) config(cmd *cobra.Command) (store.Config, error) {
	cfg, err := store.LoadConfig(app.ConfigDir)
	if err != nil {
		return store.Config{}, err
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("log-file") {
		cfg.Log.File = app.LogFile
	}
	if changed("log-level") {
		cfg.Log.Level = app.LogLevel
	}
	if changed("count") {
		cfg.List.Count = app.Count
	}
	if changed("item-height") {
		cfg.List.ItemHeight = app.ItemHeight
	}
	if changed("gap") {
		cfg.List.Gap = app.Gap
	}
	if changed("journal") {
		cfg.Journal.Path = app.JournalPath
	}
	if err := cfg.Validate(); err != nil {
		return store.Config{}, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

func (app *App) logger() *slog.Logger {
	if app.log == nil {
		return logging.Discard()
	}
	return app.log
}

func (app *App) close() error {
	if app.logCloser == nil {
		return nil
	}
	err := app.logCloser.Close()
	app.logCloser = nil
	return err
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := app.config(cmd)
	if err != nil {
		return writeErr(cmd, err)
	}
	log := logging.Component(app.logger(), "cli")

	opts := tui.Options{
		Items:      model.Seed(cfg.List.Count),
		ItemHeight: cfg.List.ItemHeight,
		Gap:        cfg.List.Gap,
		Throttle:   cfg.Drag.Throttle,
		Transition: cfg.Drag.Transition,
		Glyphs:     cfg.TUI.Glyphs,
		Theme:      cfg.TUI.Theme,
		Logger:     app.logger(),
	}
	if p := strings.TrimSpace(cfg.Journal.Path); p != "" {
		j, err := journal.Open(cmdContext(cmd), p)
		if err != nil {
			return writeErr(cmd, err)
		}
		defer j.Close()
		opts.Journal = j
	}

	log.Info("list view start",
		slog.Int("count", cfg.List.Count),
		slog.Int("item_height", cfg.List.ItemHeight),
		slog.Int("gap", cfg.List.Gap),
		slog.Bool("journal", opts.Journal != nil),
	)
	if err := tui.Run(opts); err != nil {
		return writeErr(cmd, err)
	}
	log.Info("list view exit")
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
