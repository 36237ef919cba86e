package editor

import (
	"grafed/core"
	"grafed/document"
)

// DefaultHistoryCapacity is used when a non-positive capacity is requested.
const DefaultHistoryCapacity = 50

// History keeps undo/redo snapshots of the element list in a ring buffer of
// JSON documents. Once full, the oldest snapshot is overwritten.
type History struct {
	states   []string // Ring buffer of JSON element snapshots
	start    int      // Physical index of the oldest state
	size     int      // Current number of states stored
	current  int      // Logical position for undo/redo, -1 when empty
	capacity int      // Maximum capacity of the ring buffer
}

// NewHistory creates a history with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		states:   make([]string, capacity),
		capacity: capacity,
		current:  -1,
	}
}

func (h *History) slot(logical int) int {
	return (h.start + logical) % h.capacity
}

// SaveState records a snapshot. Any states after the current one (undone
// states) are discarded.
func (h *History) SaveState(elements []core.Element) error {
	data, err := document.MarshalElements(elements)
	if err != nil {
		return err
	}

	// After an undo, truncate forward history
	if h.current < h.size-1 {
		h.size = h.current + 1
	}

	// Full: drop the oldest state
	if h.size == h.capacity {
		h.states[h.start] = ""
		h.start = (h.start + 1) % h.capacity
		h.size--
	}

	h.states[h.slot(h.size)] = string(data)
	h.size++
	h.current = h.size - 1
	return nil
}

// CanUndo returns true if undo is possible
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if redo is possible
func (h *History) CanRedo() bool {
	return h.current >= 0 && h.current < h.size-1
}

// Undo steps back and returns the previous snapshot.
func (h *History) Undo() ([]core.Element, error) {
	if !h.CanUndo() {
		return nil, core.ErrNothingToUndo
	}
	h.current--
	return h.load()
}

// Redo steps forward and returns the next snapshot.
func (h *History) Redo() ([]core.Element, error) {
	if !h.CanRedo() {
		return nil, core.ErrNothingToRedo
	}
	h.current++
	return h.load()
}

func (h *History) load() ([]core.Element, error) {
	return document.UnmarshalElements([]byte(h.states[h.slot(h.current)]))
}

// Clear clears the history
func (h *History) Clear() {
	h.start = 0
	h.size = 0
	h.current = -1
	// Clear the actual data to help GC
	for i := range h.states {
		h.states[i] = ""
	}
}

// Stats returns the 1-based current position and the number of stored states.
func (h *History) Stats() (current, total int) {
	return h.current + 1, h.size
}
