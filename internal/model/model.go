package model

import "time"

// Node is a single task in the tree. Children are contained structurally
// (no parent back-pointers); sibling order inside Children is display order.
type Node struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Expanded  bool   `json:"expanded"`

	Children []Node `json:"children,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// EndDate is set when Completed flips to true and cleared when it flips back.
	EndDate *time.Time `json:"endDate,omitempty"`
}

// Clone returns a deep copy of the node and its subtree.
func (n Node) Clone() Node {
	out := n
	out.Children = CloneForest(n.Children)
	if n.EndDate != nil {
		t := *n.EndDate
		out.EndDate = &t
	}
	return out
}

// CloneForest returns a deep copy of a sibling list and all subtrees.
// Empty lists normalize to nil so snapshots compare cleanly regardless of
// how a sibling list became empty.
func CloneForest(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}

// CountNodes returns the total number of nodes in the forest.
func CountNodes(nodes []Node) int {
	n := 0
	for i := range nodes {
		n += 1 + CountNodes(nodes[i].Children)
	}
	return n
}
