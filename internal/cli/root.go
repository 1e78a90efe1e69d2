package cli

import (
	"fmt"
	"os"
	"strings"

	"treedo-cli/internal/format"
	"treedo-cli/internal/store"
	"treedo-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "treedo",
		Short:        "Treedo (local-first) outline CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  treedo

  # Scriptable commands
  treedo nodes list

  # Add a top-level node
  treedo nodes add --title "Plan the week"

  # Direct node lookup (shortcut for: treedo nodes show <node-id>)
  treedo node-vth
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TREEDO_DIR", ""), "Path to store dir (advanced: overrides workspace resolution; use only when explicitly told or for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("TREEDO_WORKSPACE", ""), "Workspace name (default: 'default'; use only when explicitly selecting a non-default workspace)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TREEDO_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newNodesCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(s, db)
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		// Workspace-first:
		// 1) --workspace
		// 2) ~/.treedo/config.json currentWorkspace
		// 3) default workspace ("default")
		// 4) project-local discovery fallback
		if app.Workspace != "" {
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			dir = d
		} else if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
			d, err := store.WorkspaceDir(cfg.CurrentWorkspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			app.Workspace = cfg.CurrentWorkspace
			dir = d
		} else if cwd, err := os.Getwd(); err == nil && discovered(cwd) != "" {
			dir = discovered(cwd)
		} else {
			// Create/use the implicit default workspace.
			app.Workspace = "default"
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			dir = d
		}
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

func discovered(cwd string) string {
	d, ok := store.DiscoverDir(cwd)
	if !ok {
		return ""
	}
	return d
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
