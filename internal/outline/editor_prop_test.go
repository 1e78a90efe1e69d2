package outline

import (
	"reflect"
	"testing"

	"treedo-cli/internal/model"

	"pgregory.net/rapid"
)

func collectIDs(nodes []model.Node, into map[string]int) {
	for i := range nodes {
		into[nodes[i].ID]++
		collectIDs(nodes[i].Children, into)
	}
}

func checkPartitionInvariant(t *rapid.T, nodes []model.Node) {
	seenCompleted := false
	for i := range nodes {
		if nodes[i].Completed {
			seenCompleted = true
		} else if seenCompleted {
			t.Fatalf("incomplete node %s after a completed sibling", nodes[i].ID)
		}
		checkPartitionInvariant(t, nodes[i].Children)
	}
}

func allIDs(nodes []model.Node) []string {
	var out []string
	var walk func([]model.Node)
	walk = func(ns []model.Node) {
		for i := range ns {
			out = append(out, ns[i].ID)
			walk(ns[i].Children)
		}
	}
	walk(nodes)
	return out
}

// Random operation sequences must preserve the structural invariants, every
// undo and redo must land byte-for-byte on the snapshot recorded at that
// history depth, and a full undo walk must restore the initial forest.
func TestEditorRandomOpsInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ed := NewEditor(nil, WithClock(testClock()), WithIDFunc(testIDs()))
		initial := ed.Snapshot()

		// byDepth[d] is the forest observed when the undo stack held d ops.
		// With at most 40 steps the capacity never evicts, so depths map
		// one-to-one onto snapshots.
		byDepth := [][]model.Node{initial}

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			snap := ed.Snapshot()
			known := allIDs(snap)
			depthBefore, _ := ed.HistoryDepth()

			pickID := func(label string) string {
				if len(known) == 0 {
					return ""
				}
				return rapid.SampledFrom(known).Draw(rt, label)
			}

			var didUndo, didRedo bool
			switch rapid.IntRange(0, 6).Draw(rt, "op") {
			case 0:
				parent := ""
				if len(known) > 0 && rapid.Bool().Draw(rt, "nested") {
					parent = pickID("parent")
				}
				title := rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "title")
				ed.AddNode(title, parent)
			case 1:
				ed.DeleteNode(pickID("del"))
			case 2:
				title := rapid.StringMatching(`[a-z]{0,8}`).Draw(rt, "rename")
				ed.RenameNode(pickID("ren"), title)
			case 3:
				ed.ToggleCompletion(pickID("toggle"))
			case 4:
				ed.ToggleExpansion(pickID("expand"))
			case 5:
				target := ""
				if rapid.Bool().Draw(rt, "hasTarget") {
					target = pickID("target")
				}
				pos := rapid.SampledFrom([]Position{PositionBefore, PositionAfter, PositionInside}).Draw(rt, "pos")
				ed.MoveNode(pickID("dragged"), target, pos)
			case 6:
				if rapid.Bool().Draw(rt, "redo") {
					_, didRedo = ed.Redo()
				} else {
					_, didUndo = ed.Undo()
				}
			}

			out := ed.Snapshot()
			depth, _ := ed.HistoryDepth()

			switch {
			case didUndo:
				if depth != depthBefore-1 {
					rt.Fatalf("undo moved depth %d -> %d", depthBefore, depth)
				}
				if !reflect.DeepEqual(out, byDepth[depth]) {
					rt.Fatalf("undo did not restore the snapshot at depth %d", depth)
				}
			case didRedo:
				if depth != depthBefore+1 {
					rt.Fatalf("redo moved depth %d -> %d", depthBefore, depth)
				}
				if !reflect.DeepEqual(out, byDepth[depth]) {
					rt.Fatalf("redo did not reproduce the snapshot at depth %d", depth)
				}
			case depth == depthBefore+1:
				// Fresh op: any redoable future is gone.
				byDepth = append(byDepth[:depth], out)
			default:
				if depth != depthBefore {
					rt.Fatalf("no-op moved depth %d -> %d", depthBefore, depth)
				}
				if !reflect.DeepEqual(out, snap) {
					rt.Fatalf("rejected op must leave the forest untouched")
				}
			}

			counts := map[string]int{}
			collectIDs(out, counts)
			for id, c := range counts {
				if c != 1 {
					rt.Fatalf("id %s appears %d times", id, c)
				}
			}
			checkPartitionInvariant(rt, out)
		}

		for ed.CanUndo() {
			if _, ok := ed.Undo(); !ok {
				rt.Fatalf("undo reported false with history remaining")
			}
		}
		if !reflect.DeepEqual(ed.Snapshot(), initial) {
			rt.Fatalf("full undo walk did not restore the initial forest")
		}
	})
}
