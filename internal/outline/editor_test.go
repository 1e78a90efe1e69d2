package outline

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"treedo-cli/internal/model"
)

// testClock hands out strictly increasing timestamps so every operation
// gets a distinct, deterministic time.
func testClock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func testIDs() func(forest []model.Node) string {
	i := 0
	return func([]model.Node) string {
		i++
		return fmt.Sprintf("node-t%d", i)
	}
}

func newTestEditor(nodes []model.Node, opts ...Option) *Editor {
	base := []Option{WithClock(testClock()), WithIDFunc(testIDs())}
	return NewEditor(nodes, append(base, opts...)...)
}

func TestAddNodeRootPrependsChildAppends(t *testing.T) {
	ed := newTestEditor(nil)

	a, ok := ed.AddNode("A", "")
	if !ok {
		t.Fatalf("add A failed")
	}
	b, ok := ed.AddNode("B", "")
	if !ok {
		t.Fatalf("add B failed")
	}
	if got := ids(ed.Snapshot()); !reflect.DeepEqual(got, []string{b.ID, a.ID}) {
		t.Fatalf("new root nodes must appear first; got %v", got)
	}

	c1, _ := ed.AddNode("C1", a.ID)
	c2, _ := ed.AddNode("C2", a.ID)
	got, _ := FindByID(ed.Snapshot(), a.ID)
	if gotIDs := ids(got.Children); !reflect.DeepEqual(gotIDs, []string{c1.ID, c2.ID}) {
		t.Fatalf("children must append in order; got %v", gotIDs)
	}
	if !got.Expanded {
		t.Fatalf("adding a child must expand the parent")
	}

	if n, _ := FindByID(ed.Snapshot(), a.ID); n.CreatedAt.IsZero() || !n.CreatedAt.Equal(n.UpdatedAt) {
		t.Fatalf("fresh node must have CreatedAt == UpdatedAt, non-zero")
	}
}

func TestAddNodeMissingParentFails(t *testing.T) {
	ed := newTestEditor(nil)
	if _, ok := ed.AddNode("X", "nope"); ok {
		t.Fatalf("add under missing parent must fail")
	}
	if ed.CanUndo() {
		t.Fatalf("failed add must record nothing")
	}
}

func TestAddUndoRestoresParentCollapse(t *testing.T) {
	parent := n("p", "P")
	parent.Expanded = false
	ed := newTestEditor([]model.Node{parent})
	before := ed.Snapshot()

	if _, ok := ed.AddNode("child", "p"); !ok {
		t.Fatalf("add failed")
	}
	if got, _ := FindByID(ed.Snapshot(), "p"); !got.Expanded {
		t.Fatalf("add must expand the parent")
	}

	if _, ok := ed.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	if !reflect.DeepEqual(ed.Snapshot(), before) {
		t.Fatalf("undo must restore the exact pre-add forest, collapse flag included")
	}
}

func TestDeleteSubtreeUndoRestoresExactPosition(t *testing.T) {
	ed := newTestEditor([]model.Node{
		n("a", "A"),
		n("b", "B", n("b1", "B1", n("b1x", "B1X")), n("b2", "B2")),
		n("c", "C"),
	})
	before := ed.Snapshot()

	if !ed.DeleteNode("b1") {
		t.Fatalf("delete failed")
	}
	snap := ed.Snapshot()
	if ContainsID(snap, "b1") || ContainsID(snap, "b1x") {
		t.Fatalf("subtree must be gone")
	}

	if _, ok := ed.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	if !reflect.DeepEqual(ed.Snapshot(), before) {
		t.Fatalf("undo must restore the subtree at its old index")
	}
}

func TestRenameRecordsAndRestoresTimestamps(t *testing.T) {
	ed := newTestEditor(nil)
	a, _ := ed.AddNode("old", "")
	before := ed.Snapshot()

	if !ed.RenameNode(a.ID, "new") {
		t.Fatalf("rename failed")
	}
	got, _ := FindByID(ed.Snapshot(), a.ID)
	if got.Title != "new" {
		t.Fatalf("expected new title; got %q", got.Title)
	}
	if !got.UpdatedAt.After(a.UpdatedAt) {
		t.Fatalf("rename must refresh UpdatedAt")
	}

	if _, ok := ed.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	if !reflect.DeepEqual(ed.Snapshot(), before) {
		t.Fatalf("undo must restore title and UpdatedAt exactly")
	}
}

func TestRenameUnchangedTitleRecordsNothing(t *testing.T) {
	ed := newTestEditor(nil)
	a, _ := ed.AddNode("same", "")
	undoBefore, _ := ed.HistoryDepth()

	if ed.RenameNode(a.ID, "same") {
		t.Fatalf("unchanged title must report false")
	}
	if undoAfter, _ := ed.HistoryDepth(); undoAfter != undoBefore {
		t.Fatalf("unchanged title must not grow history")
	}
}

func TestRenameEmptyTitleDeletes(t *testing.T) {
	ed := newTestEditor(nil)
	a, _ := ed.AddNode("doomed", "")
	ed.AddNode("child", a.ID)
	before := ed.Snapshot()

	if !ed.RenameNode(a.ID, "   ") {
		t.Fatalf("empty rename must delete")
	}
	if ContainsID(ed.Snapshot(), a.ID) {
		t.Fatalf("node must be gone")
	}

	// The quick-delete path carries the same inversion payload as delete.
	if _, ok := ed.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	if !reflect.DeepEqual(ed.Snapshot(), before) {
		t.Fatalf("undo must restore the node with its subtree")
	}
}

func TestToggleCompletionSetsEndDateAndReorders(t *testing.T) {
	ed := newTestEditor(nil)
	b, _ := ed.AddNode("B", "")
	a, _ := ed.AddNode("A", "") // prepended: order is A, B

	if !ed.ToggleCompletion(a.ID) {
		t.Fatalf("toggle failed")
	}
	snap := ed.Snapshot()
	if got := ids(snap); !reflect.DeepEqual(got, []string{b.ID, a.ID}) {
		t.Fatalf("completed node must sink below incomplete siblings; got %v", got)
	}
	got, _ := FindByID(snap, a.ID)
	if !got.Completed || got.EndDate == nil {
		t.Fatalf("expected completed with EndDate set")
	}
	if !got.EndDate.Equal(got.UpdatedAt) {
		t.Fatalf("EndDate and UpdatedAt must both be the toggle time")
	}

	if !ed.ToggleCompletion(a.ID) {
		t.Fatalf("untoggle failed")
	}
	got, _ = FindByID(ed.Snapshot(), a.ID)
	if got.Completed || got.EndDate != nil {
		t.Fatalf("reopening must clear EndDate")
	}
}

func TestToggleCompletionGates(t *testing.T) {
	ed := newTestEditor(nil)
	p, _ := ed.AddNode("P", "")
	c, _ := ed.AddNode("C", p.ID)

	if ed.ToggleCompletion(p.ID) {
		t.Fatalf("parent with incomplete child must not complete")
	}
	if !ed.ToggleCompletion(c.ID) {
		t.Fatalf("child toggle failed")
	}
	if !ed.ToggleCompletion(p.ID) {
		t.Fatalf("parent must complete once children are done")
	}
	if ed.ToggleCompletion(c.ID) {
		t.Fatalf("child under completed parent must stay completed")
	}
	if !ed.ToggleCompletion(p.ID) {
		t.Fatalf("reopening the parent failed")
	}
	if !ed.ToggleCompletion(c.ID) {
		t.Fatalf("child must be reopenable after the parent reopens")
	}
}

func TestCompletionUndoRedoScenario(t *testing.T) {
	// Complete A (it sinks below B), undo (it returns to its old slot with
	// its old timestamps), redo (same result as the live toggle).
	ed := newTestEditor(nil)
	ed.AddNode("B", "")
	a, _ := ed.AddNode("A", "")
	before := ed.Snapshot()

	if !ed.ToggleCompletion(a.ID) {
		t.Fatalf("toggle failed")
	}
	afterToggle := ed.Snapshot()

	if _, ok := ed.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	if !reflect.DeepEqual(ed.Snapshot(), before) {
		t.Fatalf("undo must restore order, Completed, EndDate and UpdatedAt")
	}

	if _, ok := ed.Redo(); !ok {
		t.Fatalf("redo failed")
	}
	if !reflect.DeepEqual(ed.Snapshot(), afterToggle) {
		t.Fatalf("redo must reproduce the live toggle exactly")
	}
}

func TestCompletionUndoRestoresSiblingSlot(t *testing.T) {
	// Completing the first of three siblings sinks it to the partition tail;
	// undo must lift it back to the front, not leave it where it sank.
	ed := newTestEditor([]model.Node{
		n("a", "A"),
		n("b", "B"),
		n("c", "C"),
	})
	before := ed.Snapshot()

	if !ed.ToggleCompletion("a") {
		t.Fatalf("toggle failed")
	}
	if got := ids(ed.Snapshot()); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("completed node must sink: got %v", got)
	}

	if _, ok := ed.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	if got := ids(ed.Snapshot()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("undo must restore the old sibling slot: got %v", got)
	}
	if !reflect.DeepEqual(ed.Snapshot(), before) {
		t.Fatalf("undo must restore the forest exactly")
	}

	// Same rule one level down.
	ed = newTestEditor([]model.Node{
		n("p", "P", n("x", "X"), n("y", "Y")),
	})
	before = ed.Snapshot()
	if !ed.ToggleCompletion("x") {
		t.Fatalf("toggle failed")
	}
	p, _ := FindByID(ed.Snapshot(), "p")
	if got := ids(p.Children); !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Fatalf("completed child must sink: got %v", got)
	}
	if _, ok := ed.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	if !reflect.DeepEqual(ed.Snapshot(), before) {
		t.Fatalf("undo must restore the child's slot under its parent")
	}
}

func TestToggleExpansionDoesNotTouchUpdatedAt(t *testing.T) {
	ed := newTestEditor(nil)
	p, _ := ed.AddNode("P", "")
	ed.AddNode("C", p.ID)
	beforeNode, _ := FindByID(ed.Snapshot(), p.ID)

	if !ed.ToggleExpansion(p.ID) {
		t.Fatalf("toggle expansion failed")
	}
	got, _ := FindByID(ed.Snapshot(), p.ID)
	if got.Expanded == beforeNode.Expanded {
		t.Fatalf("expansion flag must flip")
	}
	if !got.UpdatedAt.Equal(beforeNode.UpdatedAt) {
		t.Fatalf("expansion is UI state; UpdatedAt must not move")
	}
}

func TestMoveUndoRestoresExactPositionAndTimestamp(t *testing.T) {
	ed := newTestEditor([]model.Node{
		n("a", "A", n("a1", "A1"), n("a2", "A2")),
		n("b", "B"),
	})
	before := ed.Snapshot()

	if !ed.MoveNode("a2", "b", PositionInside) {
		t.Fatalf("move failed")
	}
	got, _ := FindByID(ed.Snapshot(), "b")
	if len(got.Children) != 1 || got.Children[0].ID != "a2" {
		t.Fatalf("expected a2 inside b")
	}

	if _, ok := ed.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	if !reflect.DeepEqual(ed.Snapshot(), before) {
		t.Fatalf("undo must put a2 back at index 1 under a, timestamps intact")
	}
}

func TestMoveRefreshesUpdatedAt(t *testing.T) {
	ed := newTestEditor([]model.Node{n("a", "A"), n("b", "B")})
	beforeNode, _ := FindByID(ed.Snapshot(), "a")

	if !ed.MoveNode("a", "b", PositionAfter) {
		t.Fatalf("move failed")
	}
	got, _ := FindByID(ed.Snapshot(), "a")
	if !got.UpdatedAt.After(beforeNode.UpdatedAt) {
		t.Fatalf("a structural move must refresh UpdatedAt")
	}
}

func TestRejectedMoveRecordsNothing(t *testing.T) {
	ed := newTestEditor([]model.Node{n("a", "A", n("a1", "A1"))})
	undoBefore, _ := ed.HistoryDepth()

	if ed.MoveNode("a", "a1", PositionInside) {
		t.Fatalf("descendant drop must be rejected")
	}
	if undoAfter, _ := ed.HistoryDepth(); undoAfter != undoBefore {
		t.Fatalf("rejected move must not grow history")
	}
}

func TestUndoAllRestoresInitialForest(t *testing.T) {
	ed := newTestEditor(nil)
	initial := ed.Snapshot()

	a, _ := ed.AddNode("A", "")
	b, _ := ed.AddNode("B", "")
	c, _ := ed.AddNode("C", a.ID)
	ed.RenameNode(b.ID, "B2")
	ed.ToggleCompletion(c.ID)
	ed.MoveNode(b.ID, a.ID, PositionInside)
	ed.ToggleExpansion(a.ID)
	ed.DeleteNode(b.ID)

	for ed.CanUndo() {
		if _, ok := ed.Undo(); !ok {
			t.Fatalf("undo failed mid-walk")
		}
	}
	if !reflect.DeepEqual(ed.Snapshot(), initial) {
		t.Fatalf("undoing everything must yield the initial forest")
	}
}

func TestReplaceDropsHistory(t *testing.T) {
	ed := newTestEditor(nil)
	ed.AddNode("A", "")
	if !ed.CanUndo() {
		t.Fatalf("expected history")
	}

	ed.Replace([]model.Node{n("x", "X")})
	if ed.CanUndo() || ed.CanRedo() {
		t.Fatalf("replace must reset history")
	}
	if got := ids(ed.Snapshot()); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("expected replaced forest; got %v", got)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	ed := newTestEditor(nil)
	a, _ := ed.AddNode("A", "")

	snap := ed.Snapshot()
	snap[0].Title = "mutated"

	got, _ := FindByID(ed.Snapshot(), a.ID)
	if got.Title != "A" {
		t.Fatalf("mutating a snapshot must not reach the editor")
	}
}
