package cli

import (
	"os"
	"path/filepath"
	"sort"

	"treedo-cli/internal/store"

	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Workspace management (default workspace is recommended unless explicitly told otherwise)",
	}

	cmd.AddCommand(newWorkspaceUseCmd(app))
	cmd.AddCommand(newWorkspaceCurrentCmd(app))
	cmd.AddCommand(newWorkspaceListCmd(app))

	return cmd
}

func newWorkspaceUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Set the current workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (store.Store{Dir: dir}).Ensure(); err != nil {
				return writeErr(cmd, err)
			}

			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentWorkspace = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}

			app.Workspace = name
			app.Dir = dir
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"workspace": name,
					"dir":       dir,
				},
			})
		},
	}
	return cmd
}

func newWorkspaceCurrentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the current workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			name := cfg.CurrentWorkspace
			if name == "" {
				name = "default"
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"workspace": name,
					"dir":       dir,
				},
			})
		},
	}
	return cmd
}

func newWorkspaceListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := store.LoadConfig()
			root, err := store.ConfigDir()
			if err != nil {
				return writeErr(cmd, err)
			}
			entries, err := os.ReadDir(filepath.Join(root, "workspaces"))
			if err != nil && !os.IsNotExist(err) {
				return writeErr(cmd, err)
			}

			type ws struct {
				Name    string `json:"name"`
				Dir     string `json:"dir"`
				Current bool   `json:"current"`
			}
			var out []ws
			for _, e := range entries {
				if !e.IsDir() {
					continue
				}
				out = append(out, ws{
					Name:    e.Name(),
					Dir:     filepath.Join(root, "workspaces", e.Name()),
					Current: e.Name() == cfg.CurrentWorkspace,
				})
			}
			sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}
