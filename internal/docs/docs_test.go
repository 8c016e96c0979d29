package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopics(t *testing.T) {
	assert.Equal(t, []string{"config", "dragging", "usage"}, Topics())
}

func TestGet(t *testing.T) {
	body, ok := Get(" Dragging ")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(body, "# Dragging"))

	for _, bad := range []string{"", "nope", "../docs", "content/usage"} {
		_, ok := Get(bad)
		assert.False(t, ok, bad)
	}
}

func TestRenderHTML(t *testing.T) {
	out := string(RenderHTML("# Title\n\n<script>alert(1)</script>\n\n| a | b |\n|---|---|\n| 1 | 2 |"))
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<table>")
	assert.NotContains(t, out, "<script>")
	assert.Empty(t, string(RenderHTML("  ")))
}

func TestRenderTerminal(t *testing.T) {
	body, _ := Get("usage")
	out, err := RenderTerminal(body, 60, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage")
}
