package drag

import (
	"testing"
	"time"

	"draglist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type offsetCall struct {
	index    int
	dy       float64
	animated bool
}

type fakeDisplacer struct {
	offsets map[int]float64
	calls   []offsetCall
	cleared []int
	lifted  map[int]bool
}

func newFakeDisplacer() *fakeDisplacer {
	return &fakeDisplacer{offsets: map[int]float64{}, lifted: map[int]bool{}}
}

func (d *fakeDisplacer) SetOffset(index int, dy float64, animated bool) {
	d.offsets[index] = dy
	d.calls = append(d.calls, offsetCall{index, dy, animated})
}

func (d *fakeDisplacer) ClearOffset(index int) {
	delete(d.offsets, index)
	d.cleared = append(d.cleared, index)
}

func (d *fakeDisplacer) SetLifted(index int, lifted bool) {
	if lifted {
		d.lifted[index] = true
		return
	}
	delete(d.lifted, index)
}

func letters(labels ...string) model.List {
	out := make(model.List, len(labels))
	for i, l := range labels {
		out[i] = model.Item{ID: "id-" + l, Label: l}
	}
	return out
}

// Rows are 50 tall with a 16 gap, so slot i starts at 66*i.
func newTestController(list model.List) (*Controller, *fakeDisplacer, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	d := newFakeDisplacer()
	c := NewController(list, UniformLayout{ItemHeight: 50, Gap: 16}, d,
		WithGap(16),
		WithClock(clk.now),
	)
	return c, d, clk
}

func TestCommit_WhenIdleIsNoop(t *testing.T) {
	list := letters("A", "B", "C")
	c, d, _ := newTestController(list)

	got, moved := c.Commit()
	assert.False(t, moved)
	assert.Equal(t, list, got)
	assert.Empty(t, d.cleared)

	got, moved = c.Commit()
	assert.False(t, moved)
	assert.Equal(t, list, got)
}

func TestBegin_IgnoresInvalidAndNested(t *testing.T) {
	c, d, _ := newTestController(letters("A", "B", "C"))

	assert.False(t, c.Begin(-1, 0, 50))
	assert.False(t, c.Begin(3, 0, 50))
	assert.False(t, c.Active())

	require.True(t, c.Begin(1, 91, 50))
	assert.True(t, d.lifted[1])
	assert.False(t, c.Begin(0, 10, 50), "nested session must be ignored")
	assert.Equal(t, 1, c.Session().SourceIndex)
}

func TestBegin_AsksLayoutForHeight(t *testing.T) {
	c, _, _ := newTestController(letters("A", "B"))
	require.True(t, c.Begin(0, 10, 0))
	assert.Equal(t, 50.0, c.Session().ItemHeight)
}

func TestUpdate_Throttled(t *testing.T) {
	c, d, clk := newTestController(letters("A", "B", "C"))
	require.True(t, c.Begin(0, 25, 50))

	clk.advance(5 * time.Millisecond)
	assert.False(t, c.Update(40), "update within the throttle after Begin is dropped")
	assert.Equal(t, 0.0, d.offsets[0])

	clk.advance(11 * time.Millisecond)
	assert.True(t, c.Update(40))
	assert.Equal(t, 15.0, d.offsets[0])

	clk.advance(15 * time.Millisecond)
	assert.False(t, c.Update(200))
	assert.Equal(t, 15.0, d.offsets[0])
}

func TestUpdate_DraggedRowTracksPointerWithoutAnimation(t *testing.T) {
	c, d, clk := newTestController(letters("A", "B", "C"))
	require.True(t, c.Begin(1, 91, 50))
	clk.advance(DefaultThrottle)
	require.True(t, c.Update(100))

	var last offsetCall
	for _, call := range d.calls {
		if call.index == 1 {
			last = call
		}
	}
	assert.Equal(t, offsetCall{index: 1, dy: 9, animated: false}, last)
}

func TestDragDownPastTwoSiblings(t *testing.T) {
	c, d, clk := newTestController(letters("A", "B", "C", "D", "E"))
	// B rests at [66,116); grab it at its center.
	require.True(t, c.Begin(1, 91, 50))

	// Dragged center moves to 91+150=241, past C (157) and D (223), short of E (289).
	clk.advance(DefaultThrottle)
	require.True(t, c.Update(241))
	assert.Equal(t, 3, c.Session().TargetIndex)
	assert.Equal(t, -66.0, d.offsets[2])
	assert.Equal(t, -66.0, d.offsets[3])
	assert.Zero(t, d.offsets[4])
	assert.Zero(t, d.offsets[0])

	got, moved := c.Commit()
	require.True(t, moved)
	assert.Equal(t, []string{"A", "C", "D", "B", "E"}, got.Labels())
	assert.False(t, c.Active())
	assert.Empty(t, d.offsets)
	assert.Empty(t, d.lifted)
}

func TestDragUpPastTwoSiblings(t *testing.T) {
	c, d, clk := newTestController(letters("A", "B", "C", "D", "E"))
	// D rests at [198,248).
	require.True(t, c.Begin(3, 223, 50))

	clk.advance(DefaultThrottle)
	require.True(t, c.Update(80))
	assert.Equal(t, 1, c.Session().TargetIndex)
	assert.Equal(t, 66.0, d.offsets[1])
	assert.Equal(t, 66.0, d.offsets[2])
	assert.Zero(t, d.offsets[0])

	got, moved := c.Commit()
	require.True(t, moved)
	assert.Equal(t, []string{"A", "D", "B", "C", "E"}, got.Labels())
}

func TestUpdate_SiblingsReturnWhenPointerComesBack(t *testing.T) {
	c, d, clk := newTestController(letters("A", "B", "C"))
	require.True(t, c.Begin(0, 25, 50))

	clk.advance(DefaultThrottle)
	require.True(t, c.Update(120))
	assert.Equal(t, 1, c.Session().TargetIndex)
	assert.Equal(t, -66.0, c.Offset(1))

	clk.advance(DefaultThrottle)
	require.True(t, c.Update(30))
	assert.Equal(t, 0, c.Session().TargetIndex)
	assert.Zero(t, c.Offset(1))
	assert.Zero(t, d.offsets[1])
}

func TestUpdate_UnchangedOffsetsAreNotReapplied(t *testing.T) {
	c, d, clk := newTestController(letters("A", "B", "C"))
	require.True(t, c.Begin(0, 25, 50))

	clk.advance(DefaultThrottle)
	require.True(t, c.Update(120))
	n := 0
	for _, call := range d.calls {
		if call.index == 1 {
			n++
		}
	}
	clk.advance(DefaultThrottle)
	require.True(t, c.Update(125))
	m := 0
	for _, call := range d.calls {
		if call.index == 1 {
			m++
		}
	}
	assert.Equal(t, n, m)
}

func TestCommit_NoMoveReturnsSameList(t *testing.T) {
	list := letters("A", "B", "C")
	c, d, clk := newTestController(list)
	require.True(t, c.Begin(1, 91, 50))
	clk.advance(DefaultThrottle)
	require.True(t, c.Update(95))

	got, moved := c.Commit()
	assert.False(t, moved)
	assert.Equal(t, list, got)
	assert.Same(t, &list[0], &got[0])
	assert.Contains(t, d.cleared, 1)
	assert.Empty(t, d.lifted)
}

func TestCancel_ClearsWithoutReorder(t *testing.T) {
	list := letters("A", "B", "C")
	c, d, clk := newTestController(list)
	require.True(t, c.Begin(0, 25, 50))
	clk.advance(DefaultThrottle)
	require.True(t, c.Update(200))

	c.Cancel()
	assert.False(t, c.Active())
	assert.Equal(t, list.Labels(), c.List().Labels())
	assert.Empty(t, d.offsets)
	assert.Empty(t, d.lifted)

	c.Cancel()
}

func TestReplaceAndSurfaceSwapOnlyWhileIdle(t *testing.T) {
	c, _, _ := newTestController(letters("A", "B"))
	require.True(t, c.Begin(0, 25, 50))
	assert.False(t, c.Replace(letters("X")))

	other := newFakeDisplacer()
	c.SetSurface(other)
	c.Cancel()
	assert.Empty(t, other.cleared, "surface must not change mid-session")

	assert.True(t, c.Replace(letters("X")))
	assert.Equal(t, []string{"X"}, c.List().Labels())
}

func TestNilSurfaceTracksOrderOnly(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	c := NewController(letters("A", "B", "C"), UniformLayout{ItemHeight: 1, Gap: 1}, nil,
		WithClock(clk.now))
	require.True(t, c.Begin(0, 0.5, 1))
	clk.advance(DefaultThrottle)
	require.True(t, c.Update(5))
	got, moved := c.Commit()
	require.True(t, moved)
	assert.Equal(t, []string{"B", "C", "A"}, got.Labels())
}

func TestUpdate_TieBreakPicksFurthestPassedSibling(t *testing.T) {
	c, _, clk := newTestController(letters("0", "1", "2", "3", "4", "5", "6", "7", "8"))
	// Source 3 rests at [198,248). One accepted update jumps past 4..7.
	require.True(t, c.Begin(3, 223, 50))
	clk.advance(DefaultThrottle)
	// Center 223+270=493: past 7 (center 487), short of 8 (553).
	require.True(t, c.Update(493))
	assert.Equal(t, 7, c.Session().TargetIndex)

	c.Cancel()
	require.True(t, c.Begin(6, 421, 50))
	clk.advance(DefaultThrottle)
	// Center 121: above 2..5 (157..355), still below 1 (91).
	require.True(t, c.Update(121))
	assert.Equal(t, 2, c.Session().TargetIndex)
}
