package docs

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	termMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle is avoided: it queries the
	// terminal and can block when stdout is not a TTY.
	termRenderers = map[string]*glamour.TermRenderer{}
)

// RenderTerminal renders md for a terminal of the given width. style is a
// glamour standard style ("dark", "light", "notty", ...).
func RenderTerminal(md string, width int, style string) (string, error) {
	if width < 20 {
		width = 20
	}
	if strings.TrimSpace(style) == "" {
		style = "dark"
	}
	key := fmt.Sprintf("%s:%d", style, width)

	termMu.Lock()
	r := termRenderers[key]
	termMu.Unlock()
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", fmt.Errorf("markdown renderer: %w", err)
		}
		termMu.Lock()
		if existing := termRenderers[key]; existing != nil {
			r = existing
		} else {
			termRenderers[key] = rr
			r = rr
		}
		termMu.Unlock()
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

var htmlRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// No html.WithUnsafe(): raw HTML in topics is dropped.
		html.WithHardWraps(),
	),
)

// RenderHTML converts md to an HTML fragment.
func RenderHTML(md string) template.HTML {
	md = strings.TrimSpace(md)
	if md == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := htmlRenderer.Convert([]byte(md), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	// Trusted only because raw HTML is disabled above.
	return template.HTML(b.String())
}
