package component

import "github.com/pkg/errors"

// ErrOutOfRange is returned when selecting an index outside the list.
var ErrOutOfRange = errors.New("selection index out of range")

const none = -1

// Selection is a static list with at most one selected entry.
type Selection[T any] struct {
	items    []T
	selected int
}

// NewSelection returns a selection over items with nothing selected.
func NewSelection[T any](items []T) *Selection[T] {
	return &Selection[T]{items: items, selected: none}
}

// Select marks entry i. On error the previous selection is kept.
func (s *Selection[T]) Select(i int) error {
	if i < 0 || i >= len(s.items) {
		return errors.Wrapf(ErrOutOfRange, "index %d, %d entries", i, len(s.items))
	}
	s.selected = i
	return nil
}

// Clear drops the selection.
func (s *Selection[T]) Clear() { s.selected = none }

// Selected returns the selected entry, if any.
func (s *Selection[T]) Selected() (item T, ok bool) {
	if s.selected == none {
		return item, false
	}
	return s.items[s.selected], true
}

// Index returns the selected index or -1.
func (s *Selection[T]) Index() int { return s.selected }

// Restore re-applies a previously saved index. Indexes that no longer fit
// the list clear the selection.
func (s *Selection[T]) Restore(i int) {
	if s.Select(i) != nil {
		s.Clear()
	}
}
