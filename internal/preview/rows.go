package preview

import (
	"fmt"
	"strings"
)

// DefaultRowWidth is the number of bytes shown per hex row.
const DefaultRowWidth = 16

// RowRecord is one fixed-width group of file bytes. Bytes holds fewer than
// the row width only for the last row of a file.
type RowRecord struct {
	Index int64
	Bytes []byte
}

// SplitRows groups a window read at offset into rows of width bytes, with
// rowIndex = absoluteOffset / width. Bytes ahead of the first row boundary
// are skipped because that row is not fully covered by this read.
func SplitRows(window []byte, offset int64, width int) []RowRecord {
	if width <= 0 || len(window) == 0 || offset < 0 {
		return nil
	}

	w := int64(width)
	start := 0
	if rem := offset % w; rem != 0 {
		start = int(w - rem)
	}
	if start >= len(window) {
		return nil
	}

	rows := make([]RowRecord, 0, (len(window)-start+width-1)/width)
	for i := start; i < len(window); i += width {
		end := min(i+width, len(window))
		rows = append(rows, RowRecord{
			Index: (offset + int64(i)) / w,
			Bytes: append([]byte(nil), window[i:end]...),
		})
	}
	return rows
}

// FormatAddress renders the offset of a row's first byte.
func FormatAddress(rowIndex int64, width int) string {
	return fmt.Sprintf("%08X", rowIndex*int64(width))
}

// FormatHex renders width slots of two uppercase hex digits separated by a
// space; slots past the end of b are blank.
func FormatHex(b []byte, width int) string {
	var builder strings.Builder
	builder.Grow(width * 3)
	for i := 0; i < width; i++ {
		if i > 0 {
			builder.WriteByte(' ')
		}
		if i < len(b) {
			fmt.Fprintf(&builder, "%02X", b[i])
		} else {
			builder.WriteString("  ")
		}
	}
	return builder.String()
}

// FormatASCII renders printable ASCII as itself and everything else as '.'.
func FormatASCII(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = printableASCII(c)
	}
	return string(out)
}

// FormatRow renders address, hex and ASCII columns for one row.
func FormatRow(row RowRecord, width int) string {
	return FormatAddress(row.Index, width) + "  " + FormatHex(row.Bytes, width) + "  " + FormatASCII(row.Bytes)
}

func printableASCII(b byte) byte {
	if b >= 0x20 && b <= 0x7E {
		return b
	}
	return '.'
}
