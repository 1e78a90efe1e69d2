package outline

import (
	"fmt"
	"strings"

	"treedo-cli/internal/model"
)

// Position says where a moved node lands relative to its target.
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
	PositionInside Position = "inside"
)

func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before":
		return PositionBefore, nil
	case "after":
		return PositionAfter, nil
	case "inside":
		return PositionInside, nil
	default:
		return "", fmt.Errorf("invalid position: %q (expected before|after|inside)", s)
	}
}

// Move detaches the dragged subtree and reinserts it at the target location.
// An empty targetID appends at the root level, after all existing roots.
//
// Rejected (forest unchanged, false):
//   - dragged or target missing
//   - dragged onto itself or onto one of its own descendants
//   - incomplete node inside a completed target
//   - incomplete node as a sibling under a completed parent
func Move(forest []model.Node, draggedID, targetID string, pos Position) ([]model.Node, bool) {
	draggedID = strings.TrimSpace(draggedID)
	targetID = strings.TrimSpace(targetID)
	if draggedID == "" {
		return forest, false
	}

	dragged, ok := FindByID(forest, draggedID)
	if !ok {
		return forest, false
	}

	if targetID == "" {
		detached := RemoveByID(forest, draggedID)
		out := append([]model.Node(nil), detached...)
		return append(out, dragged), true
	}

	if subtreeContains(dragged, targetID) {
		// Includes the self-drop case. Detach-first would make this degenerate
		// "safely" into losing the target; reject outright instead.
		return forest, false
	}

	tctx, ok := FindWithContext(forest, targetID)
	if !ok {
		return forest, false
	}

	if !dragged.Completed {
		if pos == PositionInside && tctx.Node.Completed {
			return forest, false
		}
		if pos != PositionInside && tctx.ParentID != "" {
			if parent, ok := FindByID(forest, tctx.ParentID); ok && parent.Completed {
				return forest, false
			}
		}
	}

	detached := RemoveByID(forest, draggedID)

	if pos == PositionInside {
		return UpdateByID(detached, targetID, func(t model.Node) model.Node {
			ch := append([]model.Node(nil), t.Children...)
			t.Children = append(ch, dragged)
			t.Expanded = true
			return t
		}), true
	}

	// Target's sibling index may have shifted after the detach.
	tctx, ok = FindWithContext(detached, targetID)
	if !ok {
		return forest, false
	}
	at := tctx.Index
	if pos == PositionAfter {
		at++
	}
	return InsertAt(detached, tctx.ParentID, at, dragged), true
}
