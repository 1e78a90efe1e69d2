package outline

import "treedo-cli/internal/model"

// DefaultUndoCapacity bounds both history stacks. Exceeding it silently
// evicts the oldest entry, which simply becomes non-undoable.
const DefaultUndoCapacity = 50

// Log holds the bounded undo/redo stacks for one editing session. It is a
// plain value owned by its Editor, never a package-level singleton.
type Log struct {
	capacity int
	undo     []Operation
	redo     []Operation
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultUndoCapacity
	}
	return &Log{capacity: capacity}
}

// Record pushes a fresh operation. Any redoable future is discarded.
func (l *Log) Record(op Operation) {
	if l == nil || op == nil {
		return
	}
	l.undo = append(l.undo, op)
	if len(l.undo) > l.capacity {
		l.undo = append(l.undo[:0], l.undo[len(l.undo)-l.capacity:]...)
	}
	l.redo = l.redo[:0]
}

func (l *Log) CanUndo() bool { return l != nil && len(l.undo) > 0 }
func (l *Log) CanRedo() bool { return l != nil && len(l.redo) > 0 }

// Depth returns the current undo and redo stack sizes.
func (l *Log) Depth() (undo, redo int) {
	if l == nil {
		return 0, 0
	}
	return len(l.undo), len(l.redo)
}

// Undo pops the most recent operation, applies its inverse effect to forest
// and parks the operation on the redo stack. Nothing is re-recorded.
func (l *Log) Undo(forest []model.Node) ([]model.Node, Operation, bool) {
	if !l.CanUndo() {
		return forest, nil, false
	}
	op := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	out := op.invert(forest)
	l.redo = append(l.redo, op)
	if len(l.redo) > l.capacity {
		l.redo = append(l.redo[:0], l.redo[len(l.redo)-l.capacity:]...)
	}
	return out, op, true
}

// Redo pops the most recent undone operation, reapplies its forward effect
// and pushes it back onto the undo stack.
func (l *Log) Redo(forest []model.Node) ([]model.Node, Operation, bool) {
	if !l.CanRedo() {
		return forest, nil, false
	}
	op := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	out := op.apply(forest)
	l.undo = append(l.undo, op)
	return out, op, true
}

// Reset drops all history, e.g. after replacing the forest from disk.
func (l *Log) Reset() {
	if l == nil {
		return
	}
	l.undo = l.undo[:0]
	l.redo = l.redo[:0]
}
