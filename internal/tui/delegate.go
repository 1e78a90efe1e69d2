package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// outlineRowItem adapts an outlineRow to the bubbles list.
type outlineRowItem struct {
	row outlineRow
}

func (it outlineRowItem) Title() string       { return it.row.node.Title }
func (it outlineRowItem) FilterValue() string { return it.row.node.Title }

type outlineItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
}

func newOutlineItemDelegate() outlineItemDelegate {
	return outlineItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		done: lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true),
	}
}

func (d outlineItemDelegate) Height() int  { return 1 }
func (d outlineItemDelegate) Spacing() int { return 0 }
func (d outlineItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d outlineItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(outlineRowItem)
	if !ok {
		if t, tok := item.(interface{ Title() string }); tok {
			fmt.Fprint(w, d.renderRow(contentW, d.normal, t.Title()))
		}
		return
	}

	focused := index == m.Index()

	indent := strings.Repeat("  ", it.row.depth)
	twisty := " "
	if it.row.hasChildren {
		if it.row.expanded {
			twisty = glyphTwistyExpanded()
		} else {
			twisty = glyphTwistyCollapsed()
		}
	}
	checkbox := glyphCheckboxOpen()
	if it.row.node.Completed {
		checkbox = glyphCheckboxDone()
	}

	line := indent + twisty + " " + checkbox + " " + it.row.node.Title
	if it.row.totalChildren > 0 {
		line += " " + fmt.Sprintf("[%d/%d]", it.row.doneChildren, it.row.totalChildren)
	}

	// Keep the left edge stable (no selector "bar"); use a full-row background
	// highlight for the focused row instead.
	if focused {
		fmt.Fprint(w, d.renderRow(contentW, d.selected, line))
		return
	}
	base := d.normal
	if it.row.node.Completed {
		base = d.done
	}
	fmt.Fprint(w, d.renderRow(contentW, base, line))
}

func (d outlineItemDelegate) renderRow(width int, style lipgloss.Style, line string) string {
	plainW := xansi.StringWidth(line)
	if plainW < width {
		line += strings.Repeat(" ", width-plainW)
	} else if plainW > width {
		line = xansi.Cut(line, 0, width)
	}
	return style.Render(line)
}
