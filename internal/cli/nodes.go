package cli

import (
	"errors"
	"strings"

	"treedo-cli/internal/model"
	"treedo-cli/internal/outline"

	"github.com/spf13/cobra"
)

func newNodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Node commands",
	}

	cmd.AddCommand(newNodesAddCmd(app))
	cmd.AddCommand(newNodesListCmd(app))
	cmd.AddCommand(newNodesShowCmd(app))
	cmd.AddCommand(newNodesRenameCmd(app))
	cmd.AddCommand(newNodesToggleCmd(app))
	cmd.AddCommand(newNodesExpandCmd(app))
	cmd.AddCommand(newNodesMoveCmd(app))
	cmd.AddCommand(newNodesDeleteCmd(app))

	return cmd
}

func newNodesAddCmd(app *App) *cobra.Command {
	var title string
	var parentID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node (top-level by default; --parent for a child)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(title) == "" {
				return writeErr(cmd, errors.New("title must not be empty"))
			}
			pid := strings.TrimSpace(parentID)
			if pid != "" {
				if _, ok := outline.FindByID(db.Nodes, pid); !ok {
					return writeErr(cmd, errNotFound("node", pid))
				}
			}

			ed := outline.NewEditor(db.Nodes)
			n, ok := ed.AddNode(title, pid)
			if !ok {
				return writeErr(cmd, errNotFound("node", pid))
			}
			db.Nodes = ed.Snapshot()
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("node.add", n.ID, n)
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Node title (required)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent node id (omit for a top-level node)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newNodesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the full node tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"nodes": db.Nodes,
					"count": model.CountNodes(db.Nodes),
				},
			})
		},
	}
	return cmd
}

func newNodesShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <node-id>",
		Short: "Show one node (with parent and sibling position)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			ctx, ok := outline.FindWithContext(db.Nodes, id)
			if !ok {
				return writeErr(cmd, errNotFound("node", id))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"node":     ctx.Node,
					"parentId": ctx.ParentID,
					"index":    ctx.Index,
				},
			})
		},
	}
	return cmd
}

func newNodesRenameCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <node-id>",
		Short: "Rename a node (an empty title deletes it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if _, ok := outline.FindByID(db.Nodes, id); !ok {
				return writeErr(cmd, errNotFound("node", id))
			}

			ed := outline.NewEditor(db.Nodes)
			deleted := strings.TrimSpace(title) == ""
			if !ed.RenameNode(id, title) {
				// Unchanged title: report the node as-is.
				n, _ := outline.FindByID(db.Nodes, id)
				return writeOut(cmd, app, map[string]any{"data": n})
			}
			db.Nodes = ed.Snapshot()
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			if deleted {
				_ = s.AppendEvent("node.delete", id, map[string]any{"via": "rename"})
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
			}
			n, _ := outline.FindByID(db.Nodes, id)
			_ = s.AppendEvent("node.rename", id, n)
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title (empty deletes the node and its subtree)")
	return cmd
}

func newNodesToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <node-id>",
		Short: "Toggle completion (gated both directions)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			n, ok := outline.FindByID(db.Nodes, id)
			if !ok {
				return writeErr(cmd, errNotFound("node", id))
			}

			ed := outline.NewEditor(db.Nodes)
			if !ed.ToggleCompletion(id) {
				if !n.Completed && !outline.AllDescendantsComplete(n) {
					return writeErr(cmd, errors.New("cannot complete a node with incomplete children"))
				}
				if n.Completed && outline.HasCompletedAncestor(db.Nodes, id) {
					return writeErr(cmd, errors.New("cannot un-complete a node under a completed parent"))
				}
				return writeErr(cmd, errNotFound("node", id))
			}
			db.Nodes = ed.Snapshot()
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			out, _ := outline.FindByID(db.Nodes, id)
			_ = s.AppendEvent("node.toggle", id, out)
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

func newNodesExpandCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand <node-id>",
		Short: "Toggle expand/collapse of a node's children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if _, ok := outline.FindByID(db.Nodes, id); !ok {
				return writeErr(cmd, errNotFound("node", id))
			}

			ed := outline.NewEditor(db.Nodes)
			if !ed.ToggleExpansion(id) {
				return writeErr(cmd, errNotFound("node", id))
			}
			db.Nodes = ed.Snapshot()
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			out, _ := outline.FindByID(db.Nodes, id)
			_ = s.AppendEvent("node.expand", id, map[string]any{"expanded": out.Expanded})
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

func newNodesMoveCmd(app *App) *cobra.Command {
	var targetID string
	var position string

	cmd := &cobra.Command{
		Use:   "move <node-id>",
		Short: "Move a node relative to a target (before|after|inside; no target = end of top level)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if _, ok := outline.FindByID(db.Nodes, id); !ok {
				return writeErr(cmd, errNotFound("node", id))
			}
			pos, err := outline.ParsePosition(position)
			if err != nil {
				return writeErr(cmd, err)
			}
			tid := strings.TrimSpace(targetID)
			if tid != "" {
				if _, ok := outline.FindByID(db.Nodes, tid); !ok {
					return writeErr(cmd, errNotFound("node", tid))
				}
			}

			ed := outline.NewEditor(db.Nodes)
			if !ed.MoveNode(id, tid, pos) {
				return writeErr(cmd, errors.New("invalid move (target inside own subtree, or completion rules would be violated)"))
			}
			db.Nodes = ed.Snapshot()
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			ctx, _ := outline.FindWithContext(db.Nodes, id)
			_ = s.AppendEvent("node.move", id, map[string]any{
				"target":   tid,
				"position": string(pos),
				"parentId": ctx.ParentID,
				"index":    ctx.Index,
			})
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"node":     ctx.Node,
					"parentId": ctx.ParentID,
					"index":    ctx.Index,
				},
			})
		},
	}

	cmd.Flags().StringVar(&targetID, "target", "", "Target node id (omit to move to the end of the top level)")
	cmd.Flags().StringVar(&position, "position", "after", "Where relative to the target: before|after|inside")
	return cmd
}

func newNodesDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <node-id>",
		Short: "Delete a node and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			n, ok := outline.FindByID(db.Nodes, id)
			if !ok {
				return writeErr(cmd, errNotFound("node", id))
			}

			ed := outline.NewEditor(db.Nodes)
			if !ed.DeleteNode(id) {
				return writeErr(cmd, errNotFound("node", id))
			}
			db.Nodes = ed.Snapshot()
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("node.delete", id, map[string]any{"subtreeSize": model.CountNodes([]model.Node{n})})
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"deleted":     id,
					"subtreeSize": model.CountNodes([]model.Node{n}),
				},
			})
		},
	}
	return cmd
}
