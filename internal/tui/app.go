package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"draglist/internal/drag"
	"draglist/internal/journal"
	"draglist/internal/logging"
	"draglist/internal/model"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

const (
	defaultItemHeight = 1
	defaultGap        = 1

	// Rows start one column in; the handle occupies the columns after that.
	rowPadLeft   = 1
	headerHeight = 1
)

type frameMsg time.Time

type journalRecordedMsg struct{ err error }

type appModel struct {
	opts    Options
	initial model.List

	ctx  context.Context
	ctrl *drag.Controller
	surf *surface
	bind *drag.Binding

	keys keyMap
	help help.Model
	vp   viewport.Model

	width  int
	height int

	ticking   bool
	sessionID string
	status    string

	log *slog.Logger
}

func newAppModel(opts Options) appModel {
	if opts.ItemHeight <= 0 {
		opts.ItemHeight = defaultItemHeight
	}
	if opts.Gap < 0 {
		opts.Gap = defaultGap
	}
	if opts.Throttle <= 0 {
		opts.Throttle = drag.DefaultThrottle
	}
	if opts.Transition <= 0 {
		opts.Transition = defaultTransition
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	base := opts.Logger
	if base == nil {
		base = logging.Discard()
	}

	layout := drag.UniformLayout{
		ItemHeight: float64(opts.ItemHeight),
		Gap:        float64(opts.Gap),
	}
	ctrl := drag.NewController(opts.Items, layout, nil,
		drag.WithGap(float64(opts.Gap)),
		drag.WithThrottle(opts.Throttle),
		drag.WithClock(opts.Clock),
		drag.WithLogger(logging.Component(base, "drag")),
	)

	m := appModel{
		opts:    opts,
		initial: opts.Items,
		ctx:     context.Background(),
		ctrl:    ctrl,
		keys:    defaultKeyMap(),
		help:    help.New(),
		vp:      viewport.New(0, 0),
		log:     logging.Component(base, "tui"),
	}
	m.mount()
	return m
}

// mount starts a render pass: a fresh surface and a fresh listener set bound
// to the controller's current list.
func (m *appModel) mount() {
	m.surf = newSurface(m.opts.Transition, m.opts.Clock)
	m.ctrl.SetSurface(m.surf)
	m.bind = drag.Bind(m.ctx, m.ctrl)
	m.ticking = false
}

// unmount releases the listener set and abandons any drag in progress.
func (m *appModel) unmount() {
	m.bind.Release()
	m.ctrl.Cancel()
	if m.surf != nil {
		m.surf.tracks = map[int]offsetTrack{}
		m.surf.lifted = -1
	}
}

func (m *appModel) remount() {
	m.unmount()
	m.mount()
}

func (m appModel) Init() tea.Cmd {
	return tea.SetWindowTitle("draglist")
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.syncViewport()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.BlurMsg:
		out := m.bind.Handle(drag.Event{Kind: drag.Leave})
		return m.afterPointer(out)

	case frameMsg:
		m.surf.settle()
		if !m.surf.animating() {
			m.ticking = false
			m.syncViewport()
			return m, nil
		}
		m.syncViewport()
		return m, frameTick()

	case journalRecordedMsg:
		if msg.err != nil {
			m.log.Warn("journal write failed", slog.String("err", msg.err.Error()))
			m.status = "journal: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.unmount()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.syncViewport()
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			if m.ctrl.Active() {
				return m, nil
			}
			if m.ctrl.Replace(m.initial) {
				m.remount()
				m.status = "order restored"
				m.syncViewport()
			}
			return m, nil
		}
		if m.ctrl.Active() {
			return m, nil
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if tea.MouseEvent(msg).IsWheel() {
			// Scrolling mid-drag would desync pointer and content coordinates.
			if m.ctrl.Active() {
				return m, nil
			}
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		index, onHandle := m.hitTest(msg.X, msg.Y)
		out := m.bind.Handle(drag.Event{
			Kind:       drag.Press,
			Y:          float64(m.contentY(msg.Y)),
			Index:      index,
			OnHandle:   onHandle,
			ItemHeight: float64(m.opts.ItemHeight),
		})
		if out.Began {
			m.sessionID = uuid.NewString()
		}
		return m.afterPointer(out)

	case tea.MouseActionMotion:
		out := m.bind.Handle(drag.Event{Kind: drag.Move, Y: float64(m.contentY(msg.Y))})
		return m.afterPointer(out)

	case tea.MouseActionRelease:
		out := m.bind.Handle(drag.Event{Kind: drag.Release, Y: float64(m.contentY(msg.Y))})
		return m.afterPointer(out)
	}
	return m, nil
}

// afterPointer applies the side effects of a handled pointer event: status,
// remount after a reorder, journal write, and transition frames.
func (m appModel) afterPointer(out drag.Outcome) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch {
	case out.Began:
		s := m.ctrl.Session()
		m.status = "dragging " + m.ctrl.List()[s.SourceIndex].Label
	case out.Updated:
		s := m.ctrl.Session()
		m.status = fmt.Sprintf("dragging %s %s slot %d",
			m.ctrl.List()[s.SourceIndex].Label, glyphArrow(), s.TargetIndex+1)
	case out.Committed && out.Moved:
		it := out.List[out.To]
		m.status = fmt.Sprintf("moved %s %d %s %d", it.Label, out.From+1, glyphArrow(), out.To+1)
		// The list changed: this render pass and its listeners are done.
		m.remount()
		if m.opts.Journal != nil {
			cmds = append(cmds, recordReorder(m.opts.Journal, journal.Entry{
				SessionID: m.sessionID,
				ItemID:    it.ID,
				Label:     it.Label,
				From:      out.From,
				To:        out.To,
				Count:     len(out.List),
				At:        m.opts.Clock().UTC(),
			}))
		}
		m.sessionID = ""
	case out.Committed:
		m.status = "dropped in place"
		m.sessionID = ""
	}

	if !m.ticking && m.surf.animating() {
		m.ticking = true
		cmds = append(cmds, frameTick())
	}
	m.syncViewport()
	return m, tea.Batch(cmds...)
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func recordReorder(r Recorder, e journal.Entry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return journalRecordedMsg{err: r.Record(ctx, e)}
	}
}

// contentY converts a screen row into list content coordinates.
func (m appModel) contentY(y int) int {
	return y - headerHeight + m.vp.YOffset
}

// hitTest returns the row under (x, y) at rest and whether the point is on
// the row's handle. Gaps and chrome return -1.
func (m appModel) hitTest(x, y int) (int, bool) {
	if y < headerHeight || y >= headerHeight+m.vp.Height {
		return -1, false
	}
	cy := m.contentY(y)
	stride := m.opts.ItemHeight + m.opts.Gap
	if cy < 0 || stride <= 0 {
		return -1, false
	}
	index := cy / stride
	if index >= len(m.ctrl.List()) || cy%stride >= m.opts.ItemHeight {
		return -1, false
	}
	onHandle := x >= rowPadLeft && x < rowPadLeft+handleWidth()
	return index, onHandle
}

func (m *appModel) bodyHeight() int {
	h := m.height - headerHeight - 1 - lipglossHeight(m.help.View(m.keys))
	if h < 1 {
		h = 1
	}
	return h
}

func (m *appModel) syncViewport() {
	w := m.width
	if w <= 0 {
		w = 40
	}
	m.vp.Width = w
	m.vp.Height = m.bodyHeight()
	m.vp.SetContent(m.renderCanvas(w))
}

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
