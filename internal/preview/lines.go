package preview

import (
	"bytes"

	fsutil "github.com/kk-code-lab/rpeek/internal/fs"
)

const lineDelimiter = '\n'

// LineRecord is one decoded line and the file bytes it came from. Length
// excludes the LF delimiter; a trailing CR is part of the line.
type LineRecord struct {
	Index  int64
	Offset int64
	Length int
	Text   string
}

// SplitLines cuts buf at every LF and decodes each complete line. The bytes
// after the last LF are returned undecoded as remainder; it aliases buf.
func SplitLines(buf []byte, dec fsutil.Decoder) (lines []string, remainder []byte) {
	records, remainder := SplitRecords(buf, 0, 0, dec)
	if len(records) == 0 {
		return nil, remainder
	}
	lines = make([]string, len(records))
	for i, rec := range records {
		lines[i] = rec.Text
	}
	return lines, remainder
}

// SplitRecords is SplitLines with positions: base is the file offset of
// buf[0] and firstIndex the line index of the first complete line.
func SplitRecords(buf []byte, base, firstIndex int64, dec fsutil.Decoder) ([]LineRecord, []byte) {
	if dec == nil {
		dec = fsutil.UTF8Decoder
	}

	var records []LineRecord
	cursor := 0
	for cursor < len(buf) {
		relative := bytes.IndexByte(buf[cursor:], lineDelimiter)
		if relative == -1 {
			break
		}
		lineBytes := buf[cursor : cursor+relative]
		records = append(records, LineRecord{
			Index:  firstIndex + int64(len(records)),
			Offset: base + int64(cursor),
			Length: len(lineBytes),
			Text:   dec.Decode(lineBytes),
		})
		cursor += relative + 1
	}
	return records, buf[cursor:]
}

// LineAssembler turns a sequence of adjacent windows into complete lines,
// carrying the unterminated tail of each window into the next one.
type LineAssembler struct {
	dec         fsutil.Decoder
	skip        int
	carry       []byte
	carryOffset int64
	next        int64
	nextIndex   int64
	eof         bool
}

// NewLineAssembler starts assembling at file offset start. bomLength bytes
// are dropped when start is zero.
func NewLineAssembler(start int64, bomLength int, dec fsutil.Decoder) *LineAssembler {
	if dec == nil {
		dec = fsutil.UTF8Decoder
	}
	a := &LineAssembler{dec: dec, next: start, carryOffset: start}
	if start == 0 {
		a.skip = bomLength
	}
	return a
}

// NextOffset is the file offset the next window must start at.
func (a *LineAssembler) NextOffset() int64 {
	return a.next
}

// LineCount reports how many lines have been emitted so far.
func (a *LineAssembler) LineCount() int64 {
	return a.nextIndex
}

// EOF reports whether the final line has been emitted.
func (a *LineAssembler) EOF() bool {
	return a.eof
}

// Remainder returns the carried bytes of the line not yet terminated.
func (a *LineAssembler) Remainder() []byte {
	return a.carry
}

// Feed consumes the window read at offset. Windows that do not start at
// NextOffset are ignored and reported with ok == false, so a duplicate or
// stale window never emits a line twice. A short or empty window at the
// end of the file flushes the carried tail as the last line.
func (a *LineAssembler) Feed(offset int64, data []byte, totalSize int64) (lines []LineRecord, ok bool) {
	if a.eof || offset != a.next {
		return nil, false
	}
	a.next += int64(len(data))
	short := len(data) == 0 || a.next >= totalSize

	if a.skip > 0 {
		n := min(a.skip, len(data))
		data = data[n:]
		a.skip -= n
		a.carryOffset += int64(n)
	}

	buf := data
	base := a.carryOffset
	if len(a.carry) > 0 {
		buf = append(a.carry, data...)
	}

	lines, rest := SplitRecords(buf, base, a.nextIndex, a.dec)
	a.nextIndex += int64(len(lines))
	if len(lines) > 0 {
		last := lines[len(lines)-1]
		a.carryOffset = last.Offset + int64(last.Length) + 1
	}
	a.carry = append([]byte(nil), rest...)

	if short {
		a.eof = true
		if len(a.carry) > 0 {
			lines = append(lines, LineRecord{
				Index:  a.nextIndex,
				Offset: a.carryOffset,
				Length: len(a.carry),
				Text:   a.dec.Decode(a.carry),
			})
			a.nextIndex++
			a.carryOffset += int64(len(a.carry))
			a.carry = nil
		}
	}
	return lines, true
}
