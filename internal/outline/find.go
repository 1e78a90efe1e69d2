package outline

import (
	"strings"

	"treedo-cli/internal/model"
)

// Context is a node plus the structural position it was found at.
// ParentID is empty for root-level nodes.
type Context struct {
	Node     model.Node
	ParentID string
	Index    int
}

// FindByID returns the first depth-first match for id.
func FindByID(forest []model.Node, id string) (model.Node, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Node{}, false
	}
	return findIn(forest, id)
}

func findIn(nodes []model.Node, id string) (model.Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return nodes[i], true
		}
		if n, ok := findIn(nodes[i].Children, id); ok {
			return n, true
		}
	}
	return model.Node{}, false
}

// FindWithContext is FindByID plus parent id and sibling index.
func FindWithContext(forest []model.Node, id string) (Context, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Context{}, false
	}
	return findCtxIn(forest, "", id)
}

func findCtxIn(nodes []model.Node, parentID, id string) (Context, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return Context{Node: nodes[i], ParentID: parentID, Index: i}, true
		}
		if ctx, ok := findCtxIn(nodes[i].Children, nodes[i].ID, id); ok {
			return ctx, true
		}
	}
	return Context{}, false
}

// subtreeContains reports whether id names n itself or any of its descendants.
func subtreeContains(n model.Node, id string) bool {
	if n.ID == id {
		return true
	}
	for i := range n.Children {
		if subtreeContains(n.Children[i], id) {
			return true
		}
	}
	return false
}

// ContainsID reports whether id exists anywhere in the forest.
func ContainsID(forest []model.Node, id string) bool {
	_, ok := FindByID(forest, id)
	return ok
}
