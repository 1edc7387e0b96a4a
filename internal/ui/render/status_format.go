package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rpeek/internal/preview"
)

// StatusLine summarises position and fetch activity for the footer.
func StatusLine(view View) string {
	var parts []string

	unit := "lines"
	if view.Mode == preview.ModeHex {
		unit = "rows"
	}
	total := fmt.Sprintf("%d", view.TotalRows)
	if !view.RowsFinal {
		total += "+"
	}
	if len(view.Rows) == 0 {
		parts = append(parts, fmt.Sprintf("%s 0/%s", unit, total))
	} else {
		first := view.Rows[0].Index + 1
		last := view.Rows[len(view.Rows)-1].Index + 1
		parts = append(parts, fmt.Sprintf("%s %d-%d/%s", unit, first, last, total))
	}

	if view.Mode == preview.ModeHex && len(view.Rows) > 0 && view.RowWidth > 0 {
		parts = append(parts, "@"+preview.FormatAddress(view.Rows[0].Index, view.RowWidth))
	}
	if view.Mode == preview.ModeLines && view.Column > 0 {
		parts = append(parts, fmt.Sprintf("col %d", view.Column+1))
	}
	if view.Pending > 0 {
		parts = append(parts, fmt.Sprintf("loading %d", view.Pending))
	}
	return strings.Join(parts, "  ")
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
