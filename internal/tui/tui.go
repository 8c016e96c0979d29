package tui

import (
	"context"
	"log/slog"
	"time"

	"draglist/internal/journal"
	"draglist/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Recorder receives one entry per committed reorder.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Options configures the list view. Zero values fall back to defaults.
type Options struct {
	Items model.List

	// ItemHeight and Gap are in terminal lines.
	ItemHeight int
	Gap        int

	Throttle   time.Duration
	Transition time.Duration

	// Glyphs is unicode|ascii; Theme is auto|light|dark.
	Glyphs string
	Theme  string

	Logger  *slog.Logger
	Journal Recorder

	// Clock replaces time.Now for throttling and transitions.
	Clock func() time.Time
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts)
	final, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		// Cell motion reports movement while a button is held, which is all a drag needs.
		tea.WithMouseCellMotion(),
		// Focus loss stands in for the pointer leaving the window.
		tea.WithReportFocus(),
	).Run()
	if fm, ok := final.(appModel); ok {
		fm.unmount()
	}
	return err
}
