package tui

import (
	"math"
	"time"
)

const (
	defaultTransition = 150 * time.Millisecond
	frameInterval     = 16 * time.Millisecond
)

// offsetTrack is one row's transient displacement. Animated tracks ease from
// `from` to `to` over the surface's transition duration.
type offsetTrack struct {
	from, to float64
	start    time.Time
	animated bool
}

// surface is the terminal rendering target for drag displacement. It keeps
// per-row offsets in lines and the index of the lifted row. One surface
// belongs to one render pass of one list; a reorder starts a new one.
type surface struct {
	tracks     map[int]offsetTrack
	lifted     int
	transition time.Duration
	now        func() time.Time
}

func newSurface(transition time.Duration, now func() time.Time) *surface {
	if now == nil {
		now = time.Now
	}
	if transition < 0 {
		transition = 0
	}
	return &surface{
		tracks:     map[int]offsetTrack{},
		lifted:     -1,
		transition: transition,
		now:        now,
	}
}

func (s *surface) SetOffset(index int, dy float64, animated bool) {
	if index < 0 {
		return
	}
	if !animated || s.transition == 0 {
		s.tracks[index] = offsetTrack{from: dy, to: dy}
		return
	}
	cur := s.offset(index)
	if t, ok := s.tracks[index]; ok && t.to == dy {
		return
	}
	s.tracks[index] = offsetTrack{from: cur, to: dy, start: s.now(), animated: true}
}

func (s *surface) ClearOffset(index int) {
	if _, ok := s.tracks[index]; !ok {
		return
	}
	s.SetOffset(index, 0, true)
}

func (s *surface) SetLifted(index int, lifted bool) {
	switch {
	case lifted:
		s.lifted = index
	case s.lifted == index:
		s.lifted = -1
	}
}

// offset returns the row's displacement at the current time.
func (s *surface) offset(index int) float64 {
	t, ok := s.tracks[index]
	if !ok {
		return 0
	}
	if !t.animated || s.transition <= 0 {
		return t.to
	}
	p := float64(s.now().Sub(t.start)) / float64(s.transition)
	if p >= 1 {
		return t.to
	}
	if p <= 0 {
		return t.from
	}
	return t.from + (t.to-t.from)*easeOut(p)
}

// lines returns the offset rounded to whole terminal lines.
func (s *surface) lines(index int) int {
	return int(math.Round(s.offset(index)))
}

// animating reports whether any track is still mid-transition.
func (s *surface) animating() bool {
	now := s.now()
	for _, t := range s.tracks {
		if t.animated && now.Sub(t.start) < s.transition {
			return true
		}
	}
	return false
}

// settle drops tracks that have finished returning to rest.
func (s *surface) settle() {
	now := s.now()
	for i, t := range s.tracks {
		if t.to != 0 {
			continue
		}
		if !t.animated || now.Sub(t.start) >= s.transition {
			delete(s.tracks, i)
		}
	}
}

// displaced reports whether any row is off its resting position.
func (s *surface) displaced() bool {
	for i := range s.tracks {
		if s.offset(i) != 0 {
			return true
		}
	}
	return false
}

// easeOut is CSS `ease-out`, cubic-bezier(0, 0, 0.58, 1).
func easeOut(p float64) float64 {
	const x2 = 0.58
	bx := func(t float64) float64 {
		u := 1 - t
		return 3*u*t*t*x2 + t*t*t
	}
	by := func(t float64) float64 {
		u := 1 - t
		return 3*u*t*t + t*t*t
	}
	// x(t) is monotonic on [0,1]; bisect for the t that yields p.
	lo, hi := 0.0, 1.0
	for i := 0; i < 24; i++ {
		mid := (lo + hi) / 2
		if bx(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return by((lo + hi) / 2)
}
