package drag

import (
	"context"

	"draglist/internal/model"
)

// EventKind is a pointer primitive delivered by the host UI.
type EventKind int

const (
	// Press is a primary-button press. Only presses on a handle start a drag.
	Press EventKind = iota
	// Move is pointer motion anywhere in the window, including outside the list.
	Move
	// Release is a primary-button release anywhere in the window.
	Release
	// Leave means the pointer left the window (or the window lost focus).
	Leave
)

func (k EventKind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	case Leave:
		return "leave"
	default:
		return "unknown"
	}
}

// Event is one pointer primitive in layout coordinates.
type Event struct {
	Kind EventKind
	Y    float64

	// Index is the row under the pointer for Press, or -1.
	Index int
	// OnHandle reports whether a Press landed on the row's handle.
	OnHandle bool
	// ItemHeight is the pressed row's height; zero means "ask the layout".
	ItemHeight float64
}

// Outcome reports what a handled event did.
type Outcome struct {
	Began     bool
	Updated   bool
	Committed bool
	// Moved is true when a commit changed the order; List is then the new order.
	Moved bool
	List  model.List
	// From and To are the session's source and target for a commit.
	From, To int
}

// Binding is the listener set for one render of a list. Every listener is
// acquired together by Bind and released together by Release; a released
// binding ignores all events, so nothing can act on an outdated list.
type Binding struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   *Controller
}

// Bind acquires a listener set over ctrl. Cancelling parent releases it too.
func Bind(parent context.Context, ctrl *Controller) *Binding {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Binding{ctx: ctx, cancel: cancel, ctrl: ctrl}
}

// Release tears down the listener set. It is safe to call more than once.
func (b *Binding) Release() {
	if b == nil {
		return
	}
	b.cancel()
}

// Live reports whether the binding still accepts events.
func (b *Binding) Live() bool {
	return b != nil && b.ctrl != nil && b.ctx.Err() == nil
}

// Handle routes one pointer event into the controller.
func (b *Binding) Handle(ev Event) Outcome {
	if !b.Live() {
		return Outcome{}
	}
	c := b.ctrl

	switch ev.Kind {
	case Press:
		// Nested sessions are not allowed; presses off a handle never start one.
		if c.Active() || !ev.OnHandle {
			return Outcome{}
		}
		return Outcome{Began: c.Begin(ev.Index, ev.Y, ev.ItemHeight)}
	case Move:
		if !c.Active() {
			return Outcome{}
		}
		return Outcome{Updated: c.Update(ev.Y)}
	case Release, Leave:
		if !c.Active() {
			return Outcome{}
		}
		s := c.Session()
		list, moved := c.Commit()
		return Outcome{
			Committed: true,
			Moved:     moved,
			List:      list,
			From:      s.SourceIndex,
			To:        s.TargetIndex,
		}
	}
	return Outcome{}
}
