package tui

import (
	"os"
	"strings"
	"sync"
)

// Terminal apps can't change the user's actual font. Instead, we can choose
// between Unicode and ASCII glyph sets for UI affordances (twisties, checkboxes,
// arrows). This helps on terminals/fonts that don't render some glyphs cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set: env wins, then the global config.
func applyGlyphPreference(configGlyphs string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("TREEDO_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configGlyphs))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphTwistyCollapsed() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}

func glyphTwistyExpanded() string {
	if glyphs() == glyphSetASCII {
		return "v"
	}
	return "▾"
}

func glyphCheckboxDone() string {
	if glyphs() == glyphSetASCII {
		return "[x]"
	}
	return "[✓]"
}

func glyphCheckboxOpen() string {
	return "[ ]"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}
