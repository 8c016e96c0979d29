package model

import "fmt"

// Item is one row of a reorderable list. ID is stable for the item's lifetime
// and is what renderers key on; Label is display-only.
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// List is an ordered sequence of items. Order is the only mutable aspect and it
// changes by replacing the whole list, never by editing one in place.
type List []Item

// Seed returns the demo list "Item 1" .. "Item n".
func Seed(n int) List {
	if n < 0 {
		n = 0
	}
	out := make(List, 0, n)
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		out = append(out, Item{
			ID:    uniqueItemID(seen),
			Label: fmt.Sprintf("Item %d", i+1),
		})
	}
	return out
}

// Move returns a new list with the element at from removed and reinserted at
// to. When from == to, or either index is out of range, the receiver itself is
// returned unchanged.
func (l List) Move(from, to int) List {
	if from == to || !l.valid(from) || !l.valid(to) {
		return l
	}
	moved := l[from]

	out := make(List, 0, len(l))
	out = append(out, l[:from]...)
	out = append(out, l[from+1:]...)

	// Insert into the list *after removal*.
	out = append(out, Item{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}

// IndexOf returns the position of the item with the given ID, or -1.
func (l List) IndexOf(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with l.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	return append(List(nil), l...)
}

// Labels returns the labels in display order.
func (l List) Labels() []string {
	out := make([]string, 0, len(l))
	for _, it := range l {
		out = append(out, it.Label)
	}
	return out
}

func (l List) valid(i int) bool {
	return i >= 0 && i < len(l)
}
