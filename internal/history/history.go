// Package history keeps a bounded, branch-truncating undo stack.
package history

import "sync"

// DefaultCapacity is the number of snapshots kept when none is configured.
const DefaultCapacity = 50

// History is a linear undo/redo stack of snapshots. Snapshots are cloned on
// the way in and on the way out so later mutation of live values can never
// reach a stored entry.
type History[T any] struct {
	mu       sync.Mutex
	entries  []T
	cursor   int
	capacity int
	clone    func(T) T
}

// New returns an empty history. A nil clone stores values as given, which is
// only safe for types without shared references.
func New[T any](capacity int, clone func(T) T) *History[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &History[T]{cursor: -1, capacity: capacity, clone: clone}
}

// Record appends a snapshot. Any redo branch beyond the cursor is discarded
// first; the oldest entry is evicted once the capacity is exceeded.
func (h *History[T]) Record(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < len(h.entries)-1 {
		clear(h.entries[h.cursor+1:])
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, h.clone(v))
	h.cursor++

	if len(h.entries) > h.capacity {
		var zero T
		h.entries[0] = zero
		h.entries = h.entries[1:]
		h.cursor--
	}
}

// Undo moves the cursor back and returns that snapshot. It returns false at
// the oldest entry.
func (h *History[T]) Undo() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var zero T
	if h.cursor <= 0 {
		return zero, false
	}
	h.cursor--
	return h.clone(h.entries[h.cursor]), true
}

// Redo moves the cursor forward and returns that snapshot. It returns false
// at the newest entry.
func (h *History[T]) Redo() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var zero T
	if h.cursor >= len(h.entries)-1 {
		return zero, false
	}
	h.cursor++
	return h.clone(h.entries[h.cursor]), true
}

// Current returns the snapshot at the cursor.
func (h *History[T]) Current() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var zero T
	if h.cursor < 0 {
		return zero, false
	}
	return h.clone(h.entries[h.cursor]), true
}

func (h *History[T]) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

func (h *History[T]) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.entries)-1
}

// Len returns the number of stored snapshots.
func (h *History[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Cursor returns the index of the current snapshot, or -1 when empty.
func (h *History[T]) Cursor() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// Capacity returns the maximum number of stored snapshots.
func (h *History[T]) Capacity() int {
	return h.capacity
}

// Clear drops every snapshot.
func (h *History[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	h.cursor = -1
}
