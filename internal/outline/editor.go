package outline

import (
	"strings"
	"time"

	"treedo-cli/internal/model"
)

// Editor owns the current forest snapshot and the undo/redo log for one
// editing session. Every mutation builds an Operation from pre-mutation
// state, applies its forward effect, records it and re-runs the ordering
// rule; undo and redo replay the very same effects without re-recording.
//
// All methods are no-ops (returning false) on missing ids or policy
// violations; nothing in here errors or panics on malformed input.
type Editor struct {
	nodes []model.Node
	log   *Log
	now   func() time.Time
	newID func(forest []model.Node) string
}

type Option func(*Editor)

// WithClock injects the timestamp source (tests pin this).
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDFunc injects the node id generator (tests pin this).
func WithIDFunc(newID func(forest []model.Node) string) Option {
	return func(e *Editor) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// WithUndoCapacity bounds the history stacks (default DefaultUndoCapacity).
func WithUndoCapacity(n int) Option {
	return func(e *Editor) { e.log = NewLog(n) }
}

func NewEditor(nodes []model.Node, opts ...Option) *Editor {
	e := &Editor{
		nodes: ReorderStable(model.CloneForest(nodes)),
		log:   NewLog(DefaultUndoCapacity),
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewNodeID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns a deep copy of the current forest. Callers may hold it
// across later mutations without seeing them.
func (e *Editor) Snapshot() []model.Node {
	return model.CloneForest(e.nodes)
}

// Replace swaps in a forest loaded from elsewhere and drops all history.
func (e *Editor) Replace(nodes []model.Node) {
	e.nodes = ReorderStable(model.CloneForest(nodes))
	e.log.Reset()
}

func (e *Editor) CanUndo() bool { return e.log.CanUndo() }
func (e *Editor) CanRedo() bool { return e.log.CanRedo() }

// HistoryDepth returns the undo and redo stack sizes.
func (e *Editor) HistoryDepth() (undo, redo int) { return e.log.Depth() }

// AddNode creates a node. Empty parentID prepends at the root level; a
// parent id appends as that parent's last child (and expands it). The title
// may be empty during creation; committing an empty title later deletes the
// node (see RenameNode).
func (e *Editor) AddNode(title, parentID string) (model.Node, bool) {
	parentID = strings.TrimSpace(parentID)
	parentWasExpanded := true
	if parentID != "" {
		p, ok := FindByID(e.nodes, parentID)
		if !ok {
			return model.Node{}, false
		}
		parentWasExpanded = p.Expanded
	}
	now := e.now()
	n := model.Node{
		ID:        e.newID(e.nodes),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	op := addOp{
		node:              n.Clone(),
		parentID:          parentID,
		atFront:           parentID == "",
		parentWasExpanded: parentWasExpanded,
		at:                now,
	}
	e.commit(op)
	return n, true
}

// DeleteNode removes the node and its entire subtree. The subtree snapshot
// and former position ride along in the operation, so undo restores all of
// it in place. The empty-title quick-delete path in the TUI goes through
// here too; it gets the same full inversion payload.
func (e *Editor) DeleteNode(id string) bool {
	ctx, ok := FindWithContext(e.nodes, id)
	if !ok {
		return false
	}
	op := deleteOp{node: ctx.Node.Clone(), parentID: ctx.ParentID, index: ctx.Index, at: e.now()}
	e.commit(op)
	return true
}

// RenameNode sets the title. Committing an empty (whitespace-only) title
// deletes the node instead. Unchanged titles record nothing.
func (e *Editor) RenameNode(id, title string) bool {
	if strings.TrimSpace(title) == "" {
		return e.DeleteNode(id)
	}
	n, ok := FindByID(e.nodes, id)
	if !ok {
		return false
	}
	if n.Title == title {
		return false
	}
	op := updateOp{
		nodeID:       n.ID,
		oldTitle:     n.Title,
		newTitle:     title,
		oldUpdatedAt: n.UpdatedAt,
		at:           e.now(),
	}
	e.commit(op)
	return true
}

// ToggleCompletion flips Completed and maintains EndDate. Gated both ways:
// a node cannot complete while any descendant is incomplete, and cannot
// uncomplete while a strict ancestor is completed.
func (e *Editor) ToggleCompletion(id string) bool {
	ctx, ok := FindWithContext(e.nodes, id)
	if !ok {
		return false
	}
	n := ctx.Node
	if !n.Completed && !AllDescendantsComplete(n) {
		return false
	}
	if n.Completed && HasCompletedAncestor(e.nodes, n.ID) {
		return false
	}
	op := toggleCompletionOp{
		nodeID:       n.ID,
		oldCompleted: n.Completed,
		oldEndDate:   n.EndDate,
		oldUpdatedAt: n.UpdatedAt,
		oldParentID:  ctx.ParentID,
		oldIndex:     ctx.Index,
		at:           e.now(),
	}
	e.commit(op)
	return true
}

// ToggleExpansion flips the children-visibility flag. Pure UI state: it
// does not touch UpdatedAt.
func (e *Editor) ToggleExpansion(id string) bool {
	n, ok := FindByID(e.nodes, id)
	if !ok {
		return false
	}
	op := toggleExpansionOp{nodeID: n.ID, oldExpanded: n.Expanded, at: e.now()}
	e.commit(op)
	return true
}

// MoveNode relocates a subtree before/after/inside the target (or to the
// root tail when targetID is empty). Guards live in Move; a rejected move
// records nothing. A successful move refreshes the node's UpdatedAt.
func (e *Editor) MoveNode(draggedID, targetID string, pos Position) bool {
	ctx, ok := FindWithContext(e.nodes, draggedID)
	if !ok {
		return false
	}
	if _, ok := Move(e.nodes, draggedID, targetID, pos); !ok {
		return false
	}
	targetWasExpanded := true
	if pos == PositionInside {
		if t, ok := FindByID(e.nodes, targetID); ok {
			targetWasExpanded = t.Expanded
		}
	}
	op := moveOp{
		nodeID:            ctx.Node.ID,
		oldParentID:       ctx.ParentID,
		oldIndex:          ctx.Index,
		oldUpdatedAt:      ctx.Node.UpdatedAt,
		targetID:          strings.TrimSpace(targetID),
		pos:               pos,
		targetWasExpanded: targetWasExpanded,
		at:                e.now(),
	}
	e.commit(op)
	return true
}

// Undo reverses the most recent operation. Returns the operation for
// status/audit purposes.
func (e *Editor) Undo() (Operation, bool) {
	out, op, ok := e.log.Undo(e.nodes)
	if !ok {
		return nil, false
	}
	e.nodes = ReorderStable(out)
	return op, true
}

// Redo reapplies the most recently undone operation.
func (e *Editor) Redo() (Operation, bool) {
	out, op, ok := e.log.Redo(e.nodes)
	if !ok {
		return nil, false
	}
	e.nodes = ReorderStable(out)
	return op, true
}

// commit is the single mutation path: forward effect, record, reorder.
func (e *Editor) commit(op Operation) {
	e.nodes = ReorderStable(op.apply(e.nodes))
	e.log.Record(op)
}
