package tui

import (
	"treedo-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(s store.Store, db *store.DB) error {
	applyColorProfilePreference()
	applyThemePreference()

	workspace := "default"
	configGlyphs := ""
	if cfg, err := store.LoadConfig(); err == nil {
		if cfg.TUI != nil {
			configGlyphs = cfg.TUI.Glyphs
		}
		if cfg.CurrentWorkspace != "" {
			workspace = cfg.CurrentWorkspace
		}
	}
	applyGlyphPreference(configGlyphs)

	m := newAppModel(s, db, workspace)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
