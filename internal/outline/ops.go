package outline

import (
	"time"

	"treedo-cli/internal/model"
)

// Operation is one recorded, invertible mutation. The set of variants is
// closed: apply/invert are unexported so nothing outside this package can
// add a case. Each variant carries exactly the fields needed to invert
// itself, plus a timestamp for audit ordering.
type Operation interface {
	// Kind is the mutation name ("add", "delete", "update", "move",
	// "toggleCompletion", "toggleExpansion"), used for audit events and
	// status messages.
	Kind() string
	// Time is when the operation was recorded.
	Time() time.Time
	// NodeID is the id of the mutated node.
	NodeID() string

	apply(forest []model.Node) []model.Node
	invert(forest []model.Node) []model.Node
}

type addOp struct {
	node     model.Node
	parentID string
	atFront  bool
	// Insert expands the parent as a side effect; undo must put the old
	// flag back for an exact pre-mutation restore.
	parentWasExpanded bool
	at                time.Time
}

func (o addOp) Kind() string    { return "add" }
func (o addOp) Time() time.Time { return o.at }
func (o addOp) NodeID() string  { return o.node.ID }

func (o addOp) apply(forest []model.Node) []model.Node {
	return Insert(forest, o.parentID, o.node.Clone(), o.atFront)
}

func (o addOp) invert(forest []model.Node) []model.Node {
	out := RemoveByID(forest, o.node.ID)
	if o.parentID == "" || o.parentWasExpanded {
		return out
	}
	return UpdateByID(out, o.parentID, func(p model.Node) model.Node {
		p.Expanded = false
		return p
	})
}

type deleteOp struct {
	node     model.Node // full subtree snapshot
	parentID string
	index    int
	at       time.Time
}

func (o deleteOp) Kind() string    { return "delete" }
func (o deleteOp) Time() time.Time { return o.at }
func (o deleteOp) NodeID() string  { return o.node.ID }

func (o deleteOp) apply(forest []model.Node) []model.Node {
	return RemoveByID(forest, o.node.ID)
}

func (o deleteOp) invert(forest []model.Node) []model.Node {
	return InsertAt(forest, o.parentID, o.index, o.node.Clone())
}

type updateOp struct {
	nodeID       string
	oldTitle     string
	newTitle     string
	oldUpdatedAt time.Time
	at           time.Time
}

func (o updateOp) Kind() string    { return "update" }
func (o updateOp) Time() time.Time { return o.at }
func (o updateOp) NodeID() string  { return o.nodeID }

func (o updateOp) apply(forest []model.Node) []model.Node {
	return UpdateByID(forest, o.nodeID, func(n model.Node) model.Node {
		n.Title = o.newTitle
		n.UpdatedAt = o.at
		return n
	})
}

func (o updateOp) invert(forest []model.Node) []model.Node {
	return UpdateByID(forest, o.nodeID, func(n model.Node) model.Node {
		n.Title = o.oldTitle
		n.UpdatedAt = o.oldUpdatedAt
		return n
	})
}

type moveOp struct {
	nodeID       string
	oldParentID  string
	oldIndex     int
	oldUpdatedAt time.Time
	targetID     string
	pos          Position
	// PositionInside expands the target; undo restores the old flag.
	targetWasExpanded bool
	at                time.Time
}

func (o moveOp) Kind() string    { return "move" }
func (o moveOp) Time() time.Time { return o.at }
func (o moveOp) NodeID() string  { return o.nodeID }

func (o moveOp) apply(forest []model.Node) []model.Node {
	out, ok := Move(forest, o.nodeID, o.targetID, o.pos)
	if !ok {
		return forest
	}
	return UpdateByID(out, o.nodeID, func(n model.Node) model.Node {
		n.UpdatedAt = o.at
		return n
	})
}

func (o moveOp) invert(forest []model.Node) []model.Node {
	n, ok := FindByID(forest, o.nodeID)
	if !ok {
		return forest
	}
	detached := RemoveByID(forest, o.nodeID)
	n.UpdatedAt = o.oldUpdatedAt
	out := InsertAt(detached, o.oldParentID, o.oldIndex, n)
	if o.pos == PositionInside && !o.targetWasExpanded {
		out = UpdateByID(out, o.targetID, func(t model.Node) model.Node {
			t.Expanded = false
			return t
		})
	}
	return out
}

type toggleCompletionOp struct {
	nodeID       string
	oldCompleted bool
	oldEndDate   *time.Time
	oldUpdatedAt time.Time
	// The ordering rule sinks a freshly completed node below its incomplete
	// siblings; undo must put it back at its old sibling slot, not just flip
	// the flag in place.
	oldParentID string
	oldIndex    int
	at          time.Time
}

func (o toggleCompletionOp) Kind() string    { return "toggleCompletion" }
func (o toggleCompletionOp) Time() time.Time { return o.at }
func (o toggleCompletionOp) NodeID() string  { return o.nodeID }

func (o toggleCompletionOp) apply(forest []model.Node) []model.Node {
	return UpdateByID(forest, o.nodeID, func(n model.Node) model.Node {
		n.Completed = !o.oldCompleted
		if n.Completed {
			t := o.at
			n.EndDate = &t
		} else {
			n.EndDate = nil
		}
		n.UpdatedAt = o.at
		return n
	})
}

func (o toggleCompletionOp) invert(forest []model.Node) []model.Node {
	n, ok := FindByID(forest, o.nodeID)
	if !ok {
		return forest
	}
	detached := RemoveByID(forest, o.nodeID)
	n.Completed = o.oldCompleted
	if o.oldEndDate != nil {
		t := *o.oldEndDate
		n.EndDate = &t
	} else {
		n.EndDate = nil
	}
	n.UpdatedAt = o.oldUpdatedAt
	return InsertAt(detached, o.oldParentID, o.oldIndex, n)
}

type toggleExpansionOp struct {
	nodeID      string
	oldExpanded bool
	at          time.Time
}

func (o toggleExpansionOp) Kind() string    { return "toggleExpansion" }
func (o toggleExpansionOp) Time() time.Time { return o.at }
func (o toggleExpansionOp) NodeID() string  { return o.nodeID }

func (o toggleExpansionOp) apply(forest []model.Node) []model.Node {
	return UpdateByID(forest, o.nodeID, func(n model.Node) model.Node {
		n.Expanded = !o.oldExpanded
		return n
	})
}

func (o toggleExpansionOp) invert(forest []model.Node) []model.Node {
	return UpdateByID(forest, o.nodeID, func(n model.Node) model.Node {
		n.Expanded = o.oldExpanded
		return n
	})
}
