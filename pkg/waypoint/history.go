package waypoint

import (
	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/datastructure"
)

// History. bounded undo/redo log of waypoint-list snapshots plus a cursor into
// it (-1 = empty). cursor 0 is the oldest retained snapshot and is never itself
// undoable past: undo needs at least two entries to move from.
type History struct {
	entries []datastructure.HistoryEntry
	cursor  int
	maxSize int
}

func NewHistory(maxSize int) *History {
	if maxSize < 1 {
		maxSize = pkg.DEFAULT_MAX_HISTORY_SIZE
	}
	return &History{
		entries: make([]datastructure.HistoryEntry, 0),
		cursor:  -1,
		maxSize: maxSize,
	}
}

// Push discards the redo tail beyond the cursor, appends a deep-copied snapshot
// of wps tagged with action, trims the oldest entries beyond maxSize and moves
// the cursor to the last entry.
func (h *History) Push(wps []datastructure.Waypoint, action pkg.HistoryAction) {
	h.entries = h.entries[:h.cursor+1]
	h.entries = append(h.entries, datastructure.NewHistoryEntry(wps, action))

	if len(h.entries) > h.maxSize {
		drop := len(h.entries) - h.maxSize
		h.entries = append(h.entries[:0:0], h.entries[drop:]...)
	}

	h.cursor = len(h.entries) - 1
}

func (h *History) Undo() (datastructure.HistoryEntry, bool) {
	if h.cursor <= 0 {
		return datastructure.HistoryEntry{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

func (h *History) Redo() (datastructure.HistoryEntry, bool) {
	if h.cursor >= len(h.entries)-1 {
		return datastructure.HistoryEntry{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

func (h *History) CanUndo() bool {
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Clear() {
	h.entries = h.entries[:0]
	h.cursor = -1
}
