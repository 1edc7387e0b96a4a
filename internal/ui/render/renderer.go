package render

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpeek/internal/preview"
	"github.com/kk-code-lab/rpeek/internal/textutil"
	"golang.org/x/text/unicode/norm"
)

const (
	headerRows     = 1
	footerRows     = 1
	placeholder    = "~"
	minGutterWidth = 4
)

// View is everything the renderer needs to draw one frame.
type View struct {
	Path      string
	Mode      preview.Mode
	TotalSize int64
	SizeKnown bool
	TotalRows int64
	RowsFinal bool
	TopRow    int64
	Rows      []preview.VisibleRow
	RowWidth  int
	TabWidth  int
	Column    int // horizontal scroll in line mode
	Pending   int
	Err       error
}

// Renderer draws a View onto a tcell screen. It is used from the UI
// goroutine only.
type Renderer struct {
	screen     tcell.Screen
	theme      ColorTheme
	asciiWidth [128]int // width+1, zero means not cached
	wideWidth  map[rune]int
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen:    screen,
		theme:     GetColorTheme(),
		wideWidth: make(map[rune]int),
	}
}

// BodyHeight returns how many content rows fit on a screen of height h.
func BodyHeight(h int) int {
	return max(h-headerRows-footerRows, 0)
}

// Render draws the whole frame.
func (r *Renderer) Render(view View) {
	r.screen.Clear()
	w, h := r.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	r.drawHeader(view, w)
	r.drawBody(view, w, BodyHeight(h))
	if h > headerRows {
		r.drawFooter(view, w, h-1)
	}
	r.screen.Show()
}

func (r *Renderer) drawHeader(view View, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	r.fill(0, w, 0, style)

	x := r.drawTextLine(0, 0, w, "rpeek ", style)
	name := textutil.SanitizeTerminalText(norm.NFC.String(filepath.Base(view.Path)))

	info := " [" + view.Mode.String() + "]"
	if view.SizeKnown {
		info += " " + formatSize(view.TotalSize)
	}
	nameWidth := max(w-x-textutil.DisplayWidth(info), 1)
	x = r.drawTextLine(x, 0, w-x, textutil.Truncate(name, nameWidth), style.Bold(true))
	r.drawTextLine(x, 0, w-x, info, style)
}

func (r *Renderer) drawBody(view View, w, height int) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	gutter := gutterWidth(view, height)

	for i := 0; i < height; i++ {
		y := headerRows + i
		r.fill(0, w, y, base)
		if i >= len(view.Rows) {
			continue
		}
		row := view.Rows[i]
		if !row.Loaded {
			r.drawTextLine(0, y, w, placeholder, base.Foreground(r.theme.PlaceholderFg))
			continue
		}
		if view.Mode == preview.ModeHex {
			r.drawHexRow(row, view.RowWidth, y, w, base)
		} else {
			r.drawLineRow(row, view, gutter, y, w, base)
		}
	}
}

func (r *Renderer) drawHexRow(row preview.VisibleRow, width, y, w int, base tcell.Style) {
	rec := preview.RowRecord{Index: row.Index, Bytes: row.Bytes}
	x := r.drawTextLine(0, y, w, preview.FormatAddress(rec.Index, width), base.Foreground(r.theme.AddressFg))
	x += 2
	if x >= w {
		return
	}
	x = r.drawTextLine(x, y, w-x, preview.FormatHex(rec.Bytes, width), base.Foreground(r.theme.HexFg))
	x += 2
	if x >= w {
		return
	}
	r.drawTextLine(x, y, w-x, preview.FormatASCII(rec.Bytes), base.Foreground(r.theme.ASCIIFg))
}

func (r *Renderer) drawLineRow(row preview.VisibleRow, view View, gutter, y, w int, base tcell.Style) {
	number := fmt.Sprintf("%*d ", gutter, row.Index+1)
	x := r.drawTextLine(0, y, w, number, base.Foreground(r.theme.GutterFg))
	if x >= w {
		return
	}
	tabWidth := view.TabWidth
	if tabWidth <= 0 {
		tabWidth = textutil.DefaultTabWidth
	}
	text := textutil.Window(textutil.SanitizeLine(row.Text, tabWidth), view.Column, w-x)
	r.drawTextLine(x, y, w-x, text, base)
}

func gutterWidth(view View, height int) int {
	last := view.TopRow + int64(height)
	if view.RowsFinal && view.TotalRows < last {
		last = view.TotalRows
	}
	return max(len(strconv.FormatInt(last, 10)), minGutterWidth)
}

func (r *Renderer) drawFooter(view View, w, y int) {
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Reverse(true)
	r.fill(0, w, y, style)

	status := StatusLine(view)
	x := r.drawTextLine(0, y, w, textutil.Truncate(" "+status+" ", w), style)
	if view.Err == nil || x >= w {
		return
	}
	msg := textutil.SanitizeTerminalText(view.Err.Error())
	r.drawTextLine(x, y, w-x, textutil.Truncate(" "+msg, w-x), style.Foreground(r.theme.ErrorFg))
}
