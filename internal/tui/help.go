package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `
# Treedo keys

## Outline

| Key | Action |
| --- | --- |
| a / A | add node / add child |
| enter / e | edit title (empty title deletes) |
| space | toggle done (children must be done first) |
| tab | expand / collapse |
| D | delete subtree |
| K / J | move above previous / below next sibling |
| L / H | indent under previous sibling / outdent after parent |
| u / ctrl+r | undo / redo |
| y | copy title to clipboard |
| R | reload from disk |
| q | quit |

Completed nodes sink below their incomplete siblings but keep their
relative order. A parent can only be completed once every child is done,
and children of a completed parent stay completed until the parent is
reopened.
`

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width. Creating a renderer with WithAutoStyle can trigger
	// terminal capability/background queries that may block on some terminals.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := "notty"
	if lipglossHasColor() {
		style = "dark"
		if !lipglossDarkBackground() {
			style = "light"
		}
	}

	mdRendererMu.Lock()
	key := style + ":" + strconv.Itoa(width)
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			// Avoid WithAutoStyle() here: it can block waiting on terminal queries in some setups.
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
