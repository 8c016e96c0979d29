package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func handleWidth() int {
	return xansi.StringWidth(glyphHandle())
}

func lipglossHeight(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}

func (m appModel) renderHeader() string {
	n := len(m.ctrl.List())
	title := styleHeader().Render("draglist")
	hint := styleMuted().Render(fmt.Sprintf("  %d items  drag %s to reorder", n, glyphHandle()))
	line := title + hint
	if m.width > 0 && xansi.StringWidth(line) > m.width {
		line = xansi.Truncate(line, m.width, "")
	}
	return line
}

// renderCanvas draws every row at its resting slot plus its current
// displacement. The lifted row is drawn last so it covers whatever it passes.
func (m appModel) renderCanvas(width int) string {
	list := m.ctrl.List()
	if len(list) == 0 {
		return styleMuted().Render("(empty list)")
	}
	h := m.opts.ItemHeight
	stride := h + m.opts.Gap
	total := len(list)*stride - m.opts.Gap

	blank := strings.Repeat(" ", width)
	canvas := make([]string, total)
	for i := range canvas {
		canvas[i] = blank
	}

	place := func(i int, dragged bool) {
		top := i*stride + m.surf.lines(i)
		for j, ln := range renderRow(list[i].Label, width, h, dragged) {
			y := top + j
			if y < 0 || y >= total {
				continue
			}
			canvas[y] = ln
		}
	}

	lifted := m.surf.lifted
	for i := range list {
		if i == lifted {
			continue
		}
		place(i, false)
	}
	if lifted >= 0 && lifted < len(list) {
		place(lifted, true)
	}
	return strings.Join(canvas, "\n")
}

// renderRow returns exactly height lines of exactly width cells. The label
// sits on the middle line after the handle.
func renderRow(label string, width, height int, dragged bool) []string {
	rowSt := styleRow()
	handleSt := styleHandle().Inherit(rowSt)
	if dragged {
		rowSt = styleDraggedRow()
		handleSt = styleHandleActive()
	}

	handle := glyphHandle()
	labelW := width - rowPadLeft - xansi.StringWidth(handle) - 2
	if labelW < 0 {
		labelW = 0
	}
	label = xansi.Truncate(label, labelW, "…")
	fill := labelW - xansi.StringWidth(label)
	if fill < 0 {
		fill = 0
	}

	text := rowSt.Render(strings.Repeat(" ", rowPadLeft)) +
		handleSt.Render(handle) +
		rowSt.Render(" "+label+strings.Repeat(" ", fill+1))
	if xansi.StringWidth(text) > width {
		text = xansi.Truncate(text, width, "")
	}
	empty := rowSt.Render(strings.Repeat(" ", width))

	lines := make([]string, height)
	for i := range lines {
		lines[i] = empty
	}
	if height > 0 {
		lines[height/2] = text
	}
	return lines
}
