package drag

import "time"

// Session describes an in-progress reorder gesture. The zero value is the
// idle session; every field is meaningless unless Active is true.
type Session struct {
	Active bool

	// SourceIndex and TargetIndex are positions in the list as it was when the
	// session began.
	SourceIndex int
	TargetIndex int

	OriginPointerY float64
	ItemHeight     float64

	// LastUpdate is the time of Begin or of the last accepted Update.
	LastUpdate time.Time
}

// Displacer applies transient visual offsets to rows. Any rendering target can
// implement it; the controller never touches rows any other way.
type Displacer interface {
	// SetOffset moves the row at index by dy from its resting position. When
	// animated is false the offset applies immediately (pointer tracking).
	SetOffset(index int, dy float64, animated bool)
	// ClearOffset returns the row at index to its resting position with the
	// eased transition.
	ClearOffset(index int)
	// SetLifted toggles the "dragged" marker on the row at index.
	SetLifted(index int, lifted bool)
}

// Layout reports undisplaced row geometry in the same units as pointer Y.
type Layout interface {
	Slot(index int) (top, height float64, ok bool)
}

// UniformLayout lays rows out top to bottom with a fixed height and gap.
type UniformLayout struct {
	Top        float64
	ItemHeight float64
	Gap        float64
}

func (l UniformLayout) Slot(index int) (float64, float64, bool) {
	if index < 0 {
		return 0, 0, false
	}
	return l.Top + float64(index)*(l.ItemHeight+l.Gap), l.ItemHeight, true
}
