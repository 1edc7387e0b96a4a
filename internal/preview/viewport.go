package preview

import "math"

// Viewport is the visible scroll window in consumer units (pixels for a
// web view, terminal rows for the TUI).
type Viewport struct {
	ScrollOffset float64
	Height       float64
	RowHeight    float64
}

// VisibleRange returns the half-open row range [start, end) that must be
// resident: start = floor(scroll/rowHeight), end = min(totalRows,
// start + ceil(height/rowHeight) + overscan).
func (v Viewport) VisibleRange(totalRows int64, overscan int) (start, end int64) {
	if totalRows <= 0 {
		return 0, 0
	}
	rowHeight := v.RowHeight
	if !(rowHeight > 0) {
		rowHeight = 1
	}
	scroll := v.ScrollOffset
	if !(scroll > 0) {
		scroll = 0
	}
	height := v.Height
	if !(height > 0) {
		height = 0
	}
	if overscan < 0 {
		overscan = 0
	}

	start = clampRows(math.Floor(scroll / rowHeight))
	if start > totalRows {
		start = totalRows
	}
	span := clampRows(math.Ceil(height/rowHeight)) + int64(overscan)
	end = totalRows
	if span < totalRows-start {
		end = start + span
	}
	return start, end
}

func clampRows(f float64) int64 {
	if f >= math.MaxInt64/2 {
		return math.MaxInt64 / 2
	}
	return int64(f)
}
