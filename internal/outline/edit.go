package outline

import (
	"strings"

	"treedo-cli/internal/model"
)

// UpdateByID returns a forest where the node with id is replaced by fn(node).
// Siblings and subtrees off the path are shared; the forest is returned
// unchanged when id is not found.
func UpdateByID(forest []model.Node, id string, fn func(model.Node) model.Node) []model.Node {
	id = strings.TrimSpace(id)
	if id == "" || fn == nil {
		return forest
	}
	out, _ := updateIn(forest, id, fn)
	return out
}

func updateIn(nodes []model.Node, id string, fn func(model.Node) model.Node) ([]model.Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			out := append([]model.Node(nil), nodes...)
			out[i] = fn(out[i])
			return out, true
		}
		if ch, ok := updateIn(nodes[i].Children, id, fn); ok {
			out := append([]model.Node(nil), nodes...)
			out[i].Children = ch
			return out, true
		}
	}
	return nodes, false
}

// RemoveByID removes the node and its whole subtree from wherever it is
// nested. Unchanged forest when id is not found.
func RemoveByID(forest []model.Node, id string) []model.Node {
	id = strings.TrimSpace(id)
	if id == "" {
		return forest
	}
	out, _ := removeIn(forest, id)
	return out
}

func removeIn(nodes []model.Node, id string) ([]model.Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			out := make([]model.Node, 0, len(nodes)-1)
			out = append(out, nodes[:i]...)
			out = append(out, nodes[i+1:]...)
			return out, true
		}
		if ch, ok := removeIn(nodes[i].Children, id); ok {
			out := append([]model.Node(nil), nodes...)
			out[i].Children = ch
			return out, true
		}
	}
	return nodes, false
}

// Insert adds n at the root level (parentID empty) or under the named parent.
// Inserting under a parent expands it so the new child is visible.
// Silent no-op when the named parent does not exist.
func Insert(forest []model.Node, parentID string, n model.Node, atFront bool) []model.Node {
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		if atFront {
			return append([]model.Node{n}, forest...)
		}
		out := append([]model.Node(nil), forest...)
		return append(out, n)
	}
	return UpdateByID(forest, parentID, func(p model.Node) model.Node {
		if atFront {
			p.Children = append([]model.Node{n}, p.Children...)
		} else {
			ch := append([]model.Node(nil), p.Children...)
			p.Children = append(ch, n)
		}
		p.Expanded = true
		return p
	})
}

// InsertAt splices n into the sibling list of parentID at index (clamped).
// Used to restore exact positions when inverting delete and move operations.
// If the former parent no longer exists the node falls back to the root tail,
// the same orphan rule the outline view applies.
func InsertAt(forest []model.Node, parentID string, index int, n model.Node) []model.Node {
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return spliceAt(forest, index, n)
	}
	if !ContainsID(forest, parentID) {
		out := append([]model.Node(nil), forest...)
		return append(out, n)
	}
	return UpdateByID(forest, parentID, func(p model.Node) model.Node {
		p.Children = spliceAt(p.Children, index, n)
		return p
	})
}

func spliceAt(nodes []model.Node, index int, n model.Node) []model.Node {
	if index < 0 {
		index = 0
	}
	if index > len(nodes) {
		index = len(nodes)
	}
	out := make([]model.Node, 0, len(nodes)+1)
	out = append(out, nodes[:index]...)
	out = append(out, n)
	out = append(out, nodes[index:]...)
	return out
}
