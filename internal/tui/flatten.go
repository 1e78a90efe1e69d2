package tui

import (
	"treedo-cli/internal/model"
)

// outlineRow is one visible line of the outline: a node plus the context the
// delegate needs to draw it (depth, twisty, direct-child progress).
type outlineRow struct {
	node        model.Node
	depth       int
	hasChildren bool
	expanded    bool

	doneChildren  int
	totalChildren int
}

// flattenForest turns the forest into the visible rows, depth-first. Children
// of a collapsed node are skipped entirely; completion state never hides a row.
func flattenForest(forest []model.Node) []outlineRow {
	var out []outlineRow
	var walk func(n model.Node, depth int)
	walk = func(n model.Node, depth int) {
		done := 0
		for _, ch := range n.Children {
			if ch.Completed {
				done++
			}
		}
		out = append(out, outlineRow{
			node:          n,
			depth:         depth,
			hasChildren:   len(n.Children) > 0,
			expanded:      n.Expanded,
			doneChildren:  done,
			totalChildren: len(n.Children),
		})
		if !n.Expanded {
			return
		}
		for _, ch := range n.Children {
			walk(ch, depth+1)
		}
	}
	for _, n := range forest {
		walk(n, 0)
	}
	return out
}

// rowIndexOf returns the visible row index of id, or -1.
func rowIndexOf(rows []outlineRow, id string) int {
	for i := range rows {
		if rows[i].node.ID == id {
			return i
		}
	}
	return -1
}
