package tui

import (
	"testing"

	"treedo-cli/internal/model"
)

func node(id string, expanded bool, children ...model.Node) model.Node {
	return model.Node{ID: id, Title: id, Expanded: expanded, Children: children}
}

func TestFlattenForestSkipsCollapsedSubtrees(t *testing.T) {
	forest := []model.Node{
		node("a", true,
			node("a1", false,
				node("a1x", true),
			),
			node("a2", true),
		),
		node("b", false,
			node("b1", true),
		),
	}

	rows := flattenForest(forest)
	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.node.ID)
	}

	want := []string{"a", "a1", "a2", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected rows %v; got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected rows %v; got %v", want, got)
		}
	}
}

func TestFlattenForestDepthsAndTwisties(t *testing.T) {
	forest := []model.Node{
		node("a", true,
			node("a1", true),
		),
	}

	rows := flattenForest(forest)
	if rows[0].depth != 0 || rows[1].depth != 1 {
		t.Fatalf("expected depths 0,1; got %d,%d", rows[0].depth, rows[1].depth)
	}
	if !rows[0].hasChildren || rows[1].hasChildren {
		t.Fatalf("twisty flags wrong: %v %v", rows[0].hasChildren, rows[1].hasChildren)
	}
}

func TestFlattenForestChildProgress(t *testing.T) {
	c1 := node("c1", true)
	c1.Completed = true
	forest := []model.Node{node("p", true, c1, node("c2", true))}

	rows := flattenForest(forest)
	if rows[0].doneChildren != 1 || rows[0].totalChildren != 2 {
		t.Fatalf("expected 1/2 progress; got %d/%d", rows[0].doneChildren, rows[0].totalChildren)
	}
}

func TestRowIndexOf(t *testing.T) {
	rows := flattenForest([]model.Node{node("a", true), node("b", true)})
	if idx := rowIndexOf(rows, "b"); idx != 1 {
		t.Fatalf("expected 1; got %d", idx)
	}
	if idx := rowIndexOf(rows, "zzz"); idx != -1 {
		t.Fatalf("expected -1; got %d", idx)
	}
}
