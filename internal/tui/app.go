package tui

import (
	"fmt"
	"strings"
	"time"

	"treedo-cli/internal/model"
	"treedo-cli/internal/outline"
	"treedo-cli/internal/store"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeNormal mode = iota
	modeAddSibling
	modeAddChild
	modeRename
)

type saveDoneMsg struct {
	seq int
	err string
}

type statusClearMsg struct{ seq int }

type appModel struct {
	store     store.Store
	workspace string
	version   int

	ed *outline.Editor

	width  int
	height int

	list  list.Model
	input textinput.Model
	mode  mode

	// Pending input context: the parent for an add, the node for a rename.
	editParentID string
	editNodeID   string

	status    string
	statusSeq int
	saveSeq   int

	showHelp bool
}

func newAppModel(s store.Store, db *store.DB, workspace string) appModel {
	m := appModel{
		store:     s,
		workspace: workspace,
		version:   db.Version,
		ed:        outline.NewEditor(db.Nodes),
	}

	l := list.New([]list.Item{}, newOutlineItemDelegate(), 0, 0)
	l.Title = "Treedo"
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// Bubble list defaults to quitting on ESC; here ESC is "cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases (common muscle memory).
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	m.list = l

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0
	m.input = ti

	m.refreshRows("")
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m *appModel) refreshRows(selectID string) {
	rows := flattenForest(m.ed.Snapshot())
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, outlineRowItem{row: r})
	}
	m.list.SetItems(items)
	if selectID != "" {
		if idx := rowIndexOf(rows, selectID); idx >= 0 {
			m.list.Select(idx)
		}
	}
	if m.list.Index() >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

func (m appModel) selectedRow() (outlineRow, bool) {
	it, ok := m.list.SelectedItem().(outlineRowItem)
	if !ok {
		return outlineRow{}, false
	}
	return it.row, true
}

// saveCmd persists the current forest in the background. The editor is the
// source of truth; a failed save never blocks or mutates it.
func (m *appModel) saveCmd(eventType, nodeID string, payload any) tea.Cmd {
	m.saveSeq++
	seq := m.saveSeq
	snapshot := m.ed.Snapshot()
	s := m.store
	version := m.version
	return func() tea.Msg {
		if err := s.Save(&store.DB{Version: version, Nodes: snapshot}); err != nil {
			return saveDoneMsg{seq: seq, err: err.Error()}
		}
		if eventType != "" {
			_ = s.AppendEvent(eventType, nodeID, payload)
		}
		return saveDoneMsg{seq: seq}
	}
}

func (m *appModel) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-2, max(1, msg.Height-4))
		return m, nil

	case saveDoneMsg:
		if msg.err != "" && msg.seq == m.saveSeq {
			return m, m.setStatus("save failed: " + msg.err + " (changes kept in memory)")
		}
		return m, nil

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "?", "esc", "q", "ctrl+c":
				m.showHelp = false
			}
			return m, nil
		}
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		title := m.input.Value()
		mode := m.mode
		m.mode = modeNormal
		m.input.Blur()
		return m.commitInput(mode, title)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) commitInput(mode mode, title string) (tea.Model, tea.Cmd) {
	switch mode {
	case modeAddSibling, modeAddChild:
		// Committing an empty title on a brand-new node means "never mind".
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		n, ok := m.ed.AddNode(title, m.editParentID)
		if !ok {
			return m, m.setStatus("node added nowhere: parent vanished")
		}
		m.refreshRows(n.ID)
		return m, m.saveCmd("node.add", n.ID, n)

	case modeRename:
		id := m.editNodeID
		deleted := strings.TrimSpace(title) == ""
		if !m.ed.RenameNode(id, title) {
			return m, nil
		}
		if deleted {
			m.refreshRows("")
			return m, tea.Batch(
				m.setStatus("deleted"),
				m.saveCmd("node.delete", id, map[string]any{"via": "rename"}),
			)
		}
		m.refreshRows(id)
		n, _ := outline.FindByID(m.ed.Snapshot(), id)
		return m, m.saveCmd("node.rename", id, n)
	}
	return m, nil
}

func (m appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.Reload):
		db, err := m.store.Load()
		if err != nil {
			return m, m.setStatus("reload failed: " + err.Error())
		}
		m.version = db.Version
		m.ed.Replace(db.Nodes)
		m.refreshRows("")
		return m, m.setStatus("reloaded (history cleared)")

	case key.Matches(msg, keys.AddSibling):
		row, ok := m.selectedRow()
		m.editParentID = ""
		if ok {
			if ctx, found := outline.FindWithContext(m.ed.Snapshot(), row.node.ID); found {
				m.editParentID = ctx.ParentID
			}
		}
		return m.openInput(modeAddSibling, "")

	case key.Matches(msg, keys.AddChild):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		m.editParentID = row.node.ID
		return m.openInput(modeAddChild, "")

	case key.Matches(msg, keys.Rename):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		m.editNodeID = row.node.ID
		return m.openInput(modeRename, row.node.Title)

	case key.Matches(msg, keys.Toggle):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		id := row.node.ID
		if !m.ed.ToggleCompletion(id) {
			if !row.node.Completed {
				return m, m.setStatus("complete the children first")
			}
			return m, m.setStatus("reopen the completed parent first")
		}
		m.refreshRows(id)
		n, _ := outline.FindByID(m.ed.Snapshot(), id)
		return m, m.saveCmd("node.toggle", id, n)

	case key.Matches(msg, keys.Expand):
		row, ok := m.selectedRow()
		if !ok || !row.hasChildren {
			return m, nil
		}
		id := row.node.ID
		if !m.ed.ToggleExpansion(id) {
			return m, nil
		}
		m.refreshRows(id)
		return m, m.saveCmd("node.expand", id, nil)

	case key.Matches(msg, keys.Delete):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		id := row.node.ID
		if !m.ed.DeleteNode(id) {
			return m, nil
		}
		m.refreshRows("")
		return m, tea.Batch(
			m.setStatus("deleted (u to undo)"),
			m.saveCmd("node.delete", id, nil),
		)

	case key.Matches(msg, keys.MoveUp):
		return m.moveSelected(func(ctx outline.Context, sibs []model.Node) (string, outline.Position, bool) {
			if ctx.Index == 0 {
				return "", "", false
			}
			return sibs[ctx.Index-1].ID, outline.PositionBefore, true
		})

	case key.Matches(msg, keys.MoveDown):
		return m.moveSelected(func(ctx outline.Context, sibs []model.Node) (string, outline.Position, bool) {
			if ctx.Index >= len(sibs)-1 {
				return "", "", false
			}
			return sibs[ctx.Index+1].ID, outline.PositionAfter, true
		})

	case key.Matches(msg, keys.Indent):
		return m.moveSelected(func(ctx outline.Context, sibs []model.Node) (string, outline.Position, bool) {
			if ctx.Index == 0 {
				return "", "", false
			}
			return sibs[ctx.Index-1].ID, outline.PositionInside, true
		})

	case key.Matches(msg, keys.Outdent):
		return m.moveSelected(func(ctx outline.Context, _ []model.Node) (string, outline.Position, bool) {
			if ctx.ParentID == "" {
				return "", "", false
			}
			return ctx.ParentID, outline.PositionAfter, true
		})

	case key.Matches(msg, keys.Undo):
		op, ok := m.ed.Undo()
		if !ok {
			return m, m.setStatus("nothing to undo")
		}
		m.refreshRows(op.NodeID())
		return m, tea.Batch(
			m.setStatus("undid "+op.Kind()),
			m.saveCmd("node.undo", op.NodeID(), map[string]any{"kind": op.Kind()}),
		)

	case key.Matches(msg, keys.Redo):
		op, ok := m.ed.Redo()
		if !ok {
			return m, m.setStatus("nothing to redo")
		}
		m.refreshRows(op.NodeID())
		return m, tea.Batch(
			m.setStatus("redid "+op.Kind()),
			m.saveCmd("node.redo", op.NodeID(), map[string]any{"kind": op.Kind()}),
		)

	case key.Matches(msg, keys.Yank):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if err := clipboard.WriteAll(row.node.Title); err != nil {
			return m, m.setStatus("copy failed: " + err.Error())
		}
		return m, m.setStatus("copied title")
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) openInput(md mode, value string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// moveSelected maps a structural move key onto the move engine: pick picks
// the target and position from the node's current siblings.
func (m appModel) moveSelected(pick func(ctx outline.Context, sibs []model.Node) (string, outline.Position, bool)) (tea.Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	id := row.node.ID
	forest := m.ed.Snapshot()
	ctx, found := outline.FindWithContext(forest, id)
	if !found {
		return m, nil
	}
	sibs := forest
	if ctx.ParentID != "" {
		parent, pok := outline.FindByID(forest, ctx.ParentID)
		if !pok {
			return m, nil
		}
		sibs = parent.Children
	}
	target, pos, ok := pick(ctx, sibs)
	if !ok {
		return m, nil
	}
	if !m.ed.MoveNode(id, target, pos) {
		return m, m.setStatus("can't move there")
	}
	m.refreshRows(id)
	return m, m.saveCmd("node.move", id, map[string]any{"target": target, "position": string(pos)})
}

func (m appModel) View() string {
	if m.showHelp {
		return renderMarkdown(helpMarkdown, max(20, m.width-4))
	}

	undoDepth, redoDepth := m.ed.HistoryDepth()
	header := fmt.Sprintf("Treedo %s %s  %d nodes",
		m.workspace, glyphHRule(), model.CountNodes(m.ed.Snapshot()))
	if undoDepth > 0 || redoDepth > 0 {
		header += fmt.Sprintf("  (undo %d / redo %d)", undoDepth, redoDepth)
	}
	header = styleMuted().Render(header)

	footer := m.status
	if footer == "" {
		footer = "a add " + glyphHRule() + " space done " + glyphHRule() + " ? help " + glyphHRule() + " q quit"
	}
	footer = styleMuted().Render(footer)

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = styleMuted().Render("no nodes yet " + glyphHRule() + " press a to add one")
	}

	if m.mode != modeNormal {
		label := "title"
		switch m.mode {
		case modeAddSibling:
			label = "new node"
		case modeAddChild:
			label = "new child"
		case modeRename:
			label = "edit title (empty deletes)"
		}
		prompt := lipgloss.NewStyle().Foreground(colorAccent).Render(label+":") + " " + m.input.View()
		return lipgloss.JoinVertical(lipgloss.Left, header, body, prompt, footer)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
