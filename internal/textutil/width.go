package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const DefaultTabWidth = 4

// ExpandTabs replaces tab characters with spaces up to the next tab stop,
// counting columns by display width.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	builder.Grow(len(text) + tabWidth)
	column := 0
	for _, ru := range text {
		if ru == '\t' {
			spaces := tabWidth - (column % tabWidth)
			builder.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		builder.WriteRune(ru)
		column += max(runewidth.RuneWidth(ru), 1)
	}
	return builder.String()
}

// DisplayWidth reports how many terminal cells text occupies, treating
// grapheme clusters (emoji sequences, flags) as a single glyph.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Truncate cuts text to at most width cells. A trailing "…" marks the cut
// when there is room for it.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width == 1 {
		return runewidth.Truncate(text, 1, "")
	}
	return runewidth.Truncate(text, width, "…")
}

// Window returns the part of text visible after skipping skip cells,
// limited to width cells. A wide rune straddling the left edge is dropped.
func Window(text string, skip, width int) string {
	if width <= 0 {
		return ""
	}
	if skip <= 0 {
		return runewidth.Truncate(text, width, "")
	}

	column := 0
	for i, ru := range text {
		if column >= skip {
			return runewidth.Truncate(text[i:], width, "")
		}
		column += max(runewidth.RuneWidth(ru), 1)
	}
	return ""
}
