package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru >= 0 && ru < 128 {
		if width := r.asciiWidth[ru]; width != 0 {
			return width - 1
		}
		width := max(runewidth.RuneWidth(ru), 0)
		r.asciiWidth[ru] = width + 1
		return width
	}

	if width, ok := r.wideWidth[ru]; ok {
		return width
	}
	width := max(runewidth.RuneWidth(ru), 0)
	r.wideWidth[ru] = width
	return width
}

// drawTextLine draws text from startX, attaching zero-width runes to the
// preceding cell, and returns the column after the last cell drawn.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		mainc := runes[i]
		w := r.cachedRuneWidth(mainc)
		if x-startX+w > maxWidth {
			break
		}
		i++

		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		r.screen.SetContent(x, y, mainc, combc, style)
		x += max(w, 1)
	}

	return x
}

// fill paints cells [startX, endX) of row y with blanks.
func (r *Renderer) fill(startX, endX, y int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
