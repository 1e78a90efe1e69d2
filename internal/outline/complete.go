package outline

import (
	"strings"

	"treedo-cli/internal/model"
)

// AllDescendantsComplete reports whether n could be marked complete:
// true when n has no children, otherwise every child must be completed
// and recursively satisfy the same rule.
func AllDescendantsComplete(n model.Node) bool {
	for i := range n.Children {
		if !n.Children[i].Completed {
			return false
		}
		if !AllDescendantsComplete(n.Children[i]) {
			return false
		}
	}
	return true
}

// HasCompletedAncestor reports whether any strict ancestor of id is
// completed. A node nested under a completed parent cannot be
// independently uncompleted.
func HasCompletedAncestor(forest []model.Node, id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	return ancestorCompletedIn(forest, id, false)
}

func ancestorCompletedIn(nodes []model.Node, id string, anyCompleted bool) bool {
	for i := range nodes {
		if nodes[i].ID == id {
			return anyCompleted
		}
		if ancestorCompletedIn(nodes[i].Children, id, anyCompleted || nodes[i].Completed) {
			return true
		}
	}
	return false
}
