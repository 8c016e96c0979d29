package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	l := Seed(100)
	require.Len(t, l, 100)
	assert.Equal(t, "Item 1", l[0].Label)
	assert.Equal(t, "Item 100", l[99].Label)

	seen := map[string]bool{}
	for _, it := range l {
		assert.True(t, strings.HasPrefix(it.ID, "item-"), it.ID)
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}

	assert.Empty(t, Seed(0))
	assert.Empty(t, Seed(-3))
}

func TestMove(t *testing.T) {
	base := List{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}, {ID: "c", Label: "C"}, {ID: "d", Label: "D"}, {ID: "e", Label: "E"}}

	cases := []struct {
		name     string
		from, to int
		want     string
	}{
		{"down", 1, 3, "ACDBE"},
		{"up", 3, 1, "ADBCE"},
		{"to end", 0, 4, "BCDEA"},
		{"to front", 4, 0, "EABCD"},
		{"adjacent", 2, 3, "ABDCE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := base.Move(tc.from, tc.to)
			assert.Equal(t, tc.want, strings.Join(got.Labels(), ""))
			assert.Equal(t, "ABCDE", strings.Join(base.Labels(), ""), "receiver must not change")
			assert.Len(t, got, len(base))
		})
	}
}

func TestMove_NoopReturnsReceiver(t *testing.T) {
	base := Seed(3)
	for _, p := range [][2]int{{1, 1}, {-1, 0}, {0, 3}, {5, 5}} {
		got := base.Move(p[0], p[1])
		require.Len(t, got, 3)
		assert.Same(t, &base[0], &got[0], "move(%d,%d)", p[0], p[1])
	}
}

func TestIndexOfAndClone(t *testing.T) {
	l := Seed(4)
	assert.Equal(t, 2, l.IndexOf(l[2].ID))
	assert.Equal(t, -1, l.IndexOf("missing"))

	c := l.Clone()
	c[0].Label = "changed"
	assert.Equal(t, "Item 1", l[0].Label)
	assert.Nil(t, List(nil).Clone())
}
