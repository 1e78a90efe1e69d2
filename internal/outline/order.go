package outline

import "treedo-cli/internal/model"

// ReorderStable applies the display ordering rule at every level: incomplete
// nodes first, completed nodes after, preserving relative order inside each
// partition. No other key (title, dates) participates.
func ReorderStable(forest []model.Node) []model.Node {
	if len(forest) == 0 {
		return forest
	}
	open := make([]model.Node, 0, len(forest))
	var done []model.Node
	for i := range forest {
		n := forest[i]
		n.Children = ReorderStable(n.Children)
		if n.Completed {
			done = append(done, n)
		} else {
			open = append(open, n)
		}
	}
	return append(open, done...)
}
