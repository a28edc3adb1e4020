package waypoint

import (
	"fmt"
	"testing"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"
)

func snapshotOf(names ...string) []datastructure.Waypoint {
	wps := make([]datastructure.Waypoint, len(names))
	for i, name := range names {
		wps[i] = datastructure.NewWaypoint(geo.NewCoordinate(float64(i), float64(i)), i, name)
	}
	return wps
}

func firstName(entry datastructure.HistoryEntry) string {
	wps := entry.GetWaypoints()
	if len(wps) == 0 {
		return ""
	}
	return wps[0].GetName()
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory(10)

	if h.CanUndo() || h.CanRedo() {
		t.Fatal("empty history can neither undo nor redo")
	}
	if _, ok := h.Undo(); ok {
		t.Fatal("undo on an empty history should soft-fail")
	}

	h.Push(snapshotOf("a"), pkg.HISTORY_ACTION_ADD)
	if h.CanUndo() {
		t.Error("a single snapshot is not undoable")
	}

	h.Push(snapshotOf("b"), pkg.HISTORY_ACTION_ADD)
	h.Push(snapshotOf("c"), pkg.HISTORY_ACTION_ADD)

	if !h.CanUndo() || h.CanRedo() {
		t.Fatalf("CanUndo = %v, CanRedo = %v after three pushes", h.CanUndo(), h.CanRedo())
	}

	entry, ok := h.Undo()
	if !ok || firstName(entry) != "b" {
		t.Fatalf("first undo returned %q, want b", firstName(entry))
	}
	entry, ok = h.Undo()
	if !ok || firstName(entry) != "a" {
		t.Fatalf("second undo returned %q, want a", firstName(entry))
	}
	if h.CanUndo() {
		t.Error("cursor at the oldest snapshot cannot undo further")
	}

	entry, ok = h.Redo()
	if !ok || firstName(entry) != "b" {
		t.Fatalf("redo returned %q, want b", firstName(entry))
	}
	entry, ok = h.Redo()
	if !ok || firstName(entry) != "c" {
		t.Fatalf("redo returned %q, want c", firstName(entry))
	}
	if _, ok := h.Redo(); ok {
		t.Error("redo past the newest snapshot should soft-fail")
	}
}

func TestHistoryPushTruncatesRedoTail(t *testing.T) {
	h := NewHistory(10)
	h.Push(snapshotOf("a"), pkg.HISTORY_ACTION_ADD)
	h.Push(snapshotOf("b"), pkg.HISTORY_ACTION_ADD)
	h.Push(snapshotOf("c"), pkg.HISTORY_ACTION_ADD)

	h.Undo()
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected a redo tail after two undos")
	}

	h.Push(snapshotOf("d"), pkg.HISTORY_ACTION_ADD)

	if h.CanRedo() {
		t.Error("push should discard the redo tail")
	}
	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
	entry, ok := h.Undo()
	if !ok || firstName(entry) != "a" {
		t.Errorf("undo after truncating push returned %q, want a", firstName(entry))
	}
}

func TestHistoryBounded(t *testing.T) {
	const maxSize = 5
	h := NewHistory(maxSize)

	for i := 0; i < maxSize+3; i++ {
		h.Push(snapshotOf(fmt.Sprintf("s%d", i)), pkg.HISTORY_ACTION_ADD)
	}

	if h.Len() != maxSize {
		t.Fatalf("Len = %d, want %d", h.Len(), maxSize)
	}

	// walk back to the oldest retained snapshot: s3 survives, s0..s2 were dropped
	var last datastructure.HistoryEntry
	for {
		entry, ok := h.Undo()
		if !ok {
			break
		}
		last = entry
	}
	if firstName(last) != "s3" {
		t.Errorf("oldest retained snapshot = %q, want s3", firstName(last))
	}
}

func TestHistorySnapshotIsolation(t *testing.T) {
	h := NewHistory(10)

	wps := snapshotOf("a")
	h.Push(wps, pkg.HISTORY_ACTION_ADD)
	h.Push(snapshotOf("b"), pkg.HISTORY_ACTION_ADD)

	// mutating the caller's slice must not reach the stored snapshot
	wps[0] = wps[0].WithCoordinate(geo.NewCoordinate(99, 99))

	entry, ok := h.Undo()
	if !ok {
		t.Fatal("expected an undo entry")
	}
	got := entry.GetWaypoints()
	if got[0].GetLat() == 99 {
		t.Error("history snapshot aliases the pushed slice")
	}

	// mutating the returned snapshot must not reach the history either
	got[0] = got[0].WithCoordinate(geo.NewCoordinate(42, 42))
	entry2, _ := h.Redo()
	_ = entry2
	entry3, _ := h.Undo()
	if entry3.GetWaypoints()[0].GetLat() == 42 {
		t.Error("returned snapshot aliases the stored entry")
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(10)
	h.Push(snapshotOf("a"), pkg.HISTORY_ACTION_ADD)
	h.Push(snapshotOf("b"), pkg.HISTORY_ACTION_REMOVE)

	h.Clear()

	if h.Len() != 0 || h.CanUndo() || h.CanRedo() {
		t.Error("clear should reset the history")
	}
	if _, ok := h.Undo(); ok {
		t.Error("undo after clear should soft-fail")
	}
}
