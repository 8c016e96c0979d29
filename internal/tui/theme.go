package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The list must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted   lipgloss.TerminalColor = ac("240", "243")
	colorChrome  lipgloss.TerminalColor = ac("240", "245")
	colorAccent  lipgloss.TerminalColor = ac("27", "62") // blue
	colorAccentF lipgloss.TerminalColor = ac("255", "235")

	colorRowBg lipgloss.TerminalColor = ac("255", "235")
	colorRowFg lipgloss.TerminalColor = ac("235", "252")

	// The lifted row sits "above" the list, so it gets the strongest contrast.
	colorDraggedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorDraggedFg lipgloss.TerminalColor = ac("232", "255")

	colorHandleFg lipgloss.TerminalColor = ac("244", "241")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorChrome)
}

func styleRow() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorRowFg).Background(colorRowBg)
}

func styleDraggedRow() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(colorDraggedFg).
		Background(colorDraggedBg).
		Bold(true)
}

func styleHandle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorHandleFg)
}

func styleHandleActive() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccentF).Background(colorAccent)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is useful for
// non-interactive CLI output but can accidentally disable colors in a TUI. For the TUI,
// we only honor NO_COLOR and otherwise follow the terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// If TERM/COLORTERM indicate stronger support than the detector reports, trust
	// the env. The browser terminal started by `draglist serve` sets both.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) DRAGLIST_TUI_THEME=light|dark|auto
// 2) configured theme (tui.theme)
// 3) COLORFGBG heuristic (common in terminals; format like "15;0" = fg;bg)
func applyThemePreference(configured string) {
	v := strings.TrimSpace(os.Getenv("DRAGLIST_TUI_THEME"))
	if v == "" {
		v = strings.TrimSpace(configured)
	}
	switch strings.ToLower(v) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	// Heuristic: COLORFGBG is often "fg;bg" (sometimes more segments). Use last segment as bg.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		bgStr := strings.TrimSpace(parts[len(parts)-1])
		if bg, err := strconv.Atoi(bgStr); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
