package drag

import (
	"io"
	"log/slog"
	"time"

	"draglist/internal/model"
)

const (
	// DefaultThrottle caps accepted updates to roughly 60 per second.
	DefaultThrottle = 16 * time.Millisecond
	// DefaultGap is the spacing between rows, in layout units.
	DefaultGap = 1
)

// Controller owns the list and the drag session for one list widget.
// It is driven from a single event loop and is not safe for concurrent use.
type Controller struct {
	list    model.List
	session Session

	layout  Layout
	surface Displacer

	gap      float64
	throttle time.Duration
	now      func() time.Time
	log      *slog.Logger

	// displaced holds the offset last applied to each sibling during the
	// current session, so unchanged rows are not re-animated.
	displaced map[int]float64
}

type Option func(*Controller)

func WithGap(gap float64) Option {
	return func(c *Controller) {
		if gap >= 0 {
			c.gap = gap
		}
	}
}

func WithThrottle(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.throttle = d
		}
	}
}

// WithClock replaces time.Now for throttling.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController returns an idle controller over list. surface may be nil, in
// which case the controller only tracks order.
func NewController(list model.List, layout Layout, surface Displacer, opts ...Option) *Controller {
	c := &Controller{
		list:      list,
		layout:    layout,
		surface:   surface,
		gap:       DefaultGap,
		throttle:  DefaultThrottle,
		now:       time.Now,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		displaced: map[int]float64{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the current authoritative order.
func (c *Controller) List() model.List { return c.list }

// Session returns a copy of the current session.
func (c *Controller) Session() Session { return c.session }

// Active reports whether a drag is in progress.
func (c *Controller) Active() bool { return c.session.Active }

// Offset returns the displacement last applied to a sibling in this session.
func (c *Controller) Offset(index int) float64 { return c.displaced[index] }

// SetSurface swaps the rendering target. It is only honored while idle.
func (c *Controller) SetSurface(surface Displacer) {
	if c.session.Active {
		return
	}
	c.surface = surface
}

// SetLayout swaps the geometry source. It is only honored while idle.
func (c *Controller) SetLayout(layout Layout) {
	if c.session.Active {
		return
	}
	c.layout = layout
}

// Replace installs a new list. It is only honored while idle.
func (c *Controller) Replace(list model.List) bool {
	if c.session.Active {
		return false
	}
	c.list = list
	return true
}

// Begin starts a session for the row at sourceIndex. It is ignored when a
// session is already active or sourceIndex is not a row.
func (c *Controller) Begin(sourceIndex int, pointerY, itemHeight float64) bool {
	if c.session.Active || sourceIndex < 0 || sourceIndex >= len(c.list) {
		return false
	}
	if c.layout == nil {
		return false
	}
	if itemHeight <= 0 {
		_, h, ok := c.layout.Slot(sourceIndex)
		if !ok {
			return false
		}
		itemHeight = h
	}

	c.session = Session{
		Active:         true,
		SourceIndex:    sourceIndex,
		TargetIndex:    sourceIndex,
		OriginPointerY: pointerY,
		ItemHeight:     itemHeight,
		LastUpdate:     c.now(),
	}
	c.displaced = map[int]float64{}

	if c.surface != nil {
		c.surface.SetLifted(sourceIndex, true)
		// No transition on the dragged row so it tracks the pointer 1:1.
		c.surface.SetOffset(sourceIndex, 0, false)
	}
	c.log.Debug("drag begin",
		slog.Int("source", sourceIndex),
		slog.String("item", c.list[sourceIndex].ID),
		slog.Float64("pointer_y", pointerY),
	)
	return true
}

// Update moves the dragged row to follow pointerY and recomputes the target
// slot. Calls closer together than the throttle interval are dropped.
func (c *Controller) Update(pointerY float64) bool {
	if !c.session.Active {
		return false
	}
	now := c.now()
	if now.Sub(c.session.LastUpdate) < c.throttle {
		return false
	}
	c.session.LastUpdate = now

	s := &c.session
	deltaY := pointerY - s.OriginPointerY
	if c.surface != nil {
		c.surface.SetOffset(s.SourceIndex, deltaY, false)
	}

	sourceTop, _, ok := c.layout.Slot(s.SourceIndex)
	if !ok {
		return true
	}
	draggedCenter := sourceTop + deltaY + s.ItemHeight/2
	shift := s.ItemHeight + c.gap

	target := s.SourceIndex
	for i := range c.list {
		if i == s.SourceIndex {
			continue
		}
		top, height, ok := c.layout.Slot(i)
		if !ok {
			continue
		}
		center := top + height/2

		offset := 0.0
		switch {
		case draggedCenter > center && i > s.SourceIndex:
			// Ascending scan: the furthest passed sibling wins.
			target = i
			offset = -shift
		case draggedCenter < center && i < s.SourceIndex:
			target = min(target, i)
			offset = shift
		}

		if offset != c.displaced[i] {
			if offset == 0 {
				delete(c.displaced, i)
			} else {
				c.displaced[i] = offset
			}
			if c.surface != nil {
				c.surface.SetOffset(i, offset, true)
			}
		}
	}
	s.TargetIndex = target
	return true
}

// Commit finalizes the session. Offsets and the lifted marker are cleared
// and, when the target differs from the source, the list is replaced with the
// reordered one. The returned bool reports whether the order changed.
func (c *Controller) Commit() (model.List, bool) {
	if !c.session.Active {
		return c.list, false
	}
	s := c.session

	c.clearSurface(s.SourceIndex)

	moved := false
	if s.TargetIndex != s.SourceIndex {
		c.log.Info("reorder",
			slog.String("item", c.list[s.SourceIndex].ID),
			slog.Int("from", s.SourceIndex),
			slog.Int("to", s.TargetIndex),
		)
		c.list = c.list.Move(s.SourceIndex, s.TargetIndex)
		moved = true
	}
	c.log.Debug("drag commit", slog.Int("source", s.SourceIndex), slog.Int("target", s.TargetIndex), slog.Bool("moved", moved))

	c.session = Session{}
	c.displaced = map[int]float64{}
	return c.list, moved
}

// Cancel ends the session without reordering. It is the teardown path.
func (c *Controller) Cancel() {
	if !c.session.Active {
		return
	}
	c.log.Debug("drag cancel", slog.Int("source", c.session.SourceIndex))
	c.clearSurface(c.session.SourceIndex)
	c.session = Session{}
	c.displaced = map[int]float64{}
}

func (c *Controller) clearSurface(source int) {
	if c.surface == nil {
		return
	}
	for i := range c.displaced {
		c.surface.ClearOffset(i)
	}
	c.surface.ClearOffset(source)
	c.surface.SetLifted(source, false)
}
