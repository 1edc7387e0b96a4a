package preview

import "math"

// windowFor returns the aligned hex window holding row.
func (s *Session) windowFor(row int64) int64 {
	window := int64(s.opts.HexWindow)
	return (row * int64(s.opts.RowWidth) / window) * window
}

func (s *Session) scheduleHex() {
	s.scheduleHexExcept(-1)
}

// hexRowLimit is how many rows one pass may schedule. The windows covering
// that many rows span at most two extra partial windows, and together they
// must fit in the row cache.
func (s *Session) hexRowLimit() int64 {
	windowRows := int64(s.opts.HexWindow / s.opts.RowWidth)
	return max(int64(s.opts.CacheRows)-2*windowRows+1, 1)
}

// scheduleHexExcept issues the windows missing from the viewport, never
// the window at skip.
func (s *Session) scheduleHexExcept(skip int64) {
	if !s.sizeKnown {
		// Nothing is known about the file yet; the first window also
		// reports its size.
		s.issueHexWindow(0)
		return
	}

	total, _ := s.TotalRows()
	start, end := s.viewport.VisibleRange(total, s.opts.Overscan)
	if limit := s.hexRowLimit(); end-start > limit {
		// Visible rows first; overscan above the viewport is dropped.
		start, _ = s.viewport.VisibleRange(total, 0)
		end = min(end, start+limit)
	}
	var issued map[int64]struct{}
	for row := start; row < end; row++ {
		if s.rows.Contains(row) {
			continue
		}
		key := s.windowFor(row)
		if key == skip {
			continue
		}
		if _, ok := issued[key]; ok {
			continue
		}
		if issued == nil {
			issued = make(map[int64]struct{})
		}
		issued[key] = struct{}{}
		s.issueHexWindow(key)
	}
}

func (s *Session) issueHexWindow(offset int64) {
	s.issue(fetchKey{purpose: fetchHexWindow, offset: offset}, offset, s.opts.HexWindow, 0, 0)
}

func (s *Session) applyHexWindow(win ByteWindow) []Message {
	s.totalSize = int64(win.TotalSize)
	s.sizeKnown = true
	if end := int64(win.Offset) + int64(win.BytesRead); end < s.totalSize && int(win.BytesRead) < s.opts.HexWindow {
		// The read came up short of the size reported by stat, so the file
		// shrank in between; trust the bytes.
		s.totalSize = end
	}
	for _, row := range SplitRows(win.Data, int64(win.Offset), s.opts.RowWidth) {
		s.rows.Merge(row.Index, row.Bytes)
	}
	return []Message{ByteWindowMessage{
		Session:   s.id,
		Offset:    win.Offset,
		Data:      win.Data,
		BytesRead: win.BytesRead,
		TotalSize: win.TotalSize,
	}}
}

func (s *Session) scheduleLines() {
	switch s.state {
	case StateEmpty:
		s.state = StateLoading
		s.issueNextLineWindow()
		return
	case StateLoading:
		return
	}

	known := int64(len(s.spans))
	total := known
	if !s.assembler.EOF() {
		// The line count is open-ended until the last window is split.
		total = math.MaxInt64
	}
	start, end := s.viewport.VisibleRange(total, s.opts.Overscan)
	if end > known && !s.assembler.EOF() {
		s.issueNextLineWindow()
	}
	if limit := int64(s.opts.CacheLines); end-start > limit {
		// No more lines than the cache holds can be resident at once.
		start, _ = s.viewport.VisibleRange(total, 0)
		end = min(end, start+limit)
	}
	s.rereadEvicted(start, min(end, known))
}

func (s *Session) issueNextLineWindow() {
	offset := s.assembler.NextOffset()
	s.issue(fetchKey{purpose: fetchLineWindow, offset: offset}, offset, s.opts.LineWindow, 0, 0)
}

// rereadEvicted fetches the text of discovered lines in [start, end) that
// the cache dropped, grouping adjacent lines into reads of at most one line
// window.
func (s *Session) rereadEvicted(start, end int64) {
	runStart := int64(-1)
	runEnd := int64(-1)

	flush := func() {
		if runStart < 0 {
			return
		}
		first, last := s.spans[runStart], s.spans[runEnd-1]
		length := last.offset + int64(last.length) - first.offset
		if length <= 0 {
			for i := runStart; i < runEnd; i++ {
				s.lineText.Merge(i, "")
			}
		} else {
			s.issue(fetchKey{purpose: fetchLineRange, offset: runStart}, first.offset, int(length), runStart, int(runEnd-runStart))
		}
		runStart, runEnd = -1, -1
	}

	for i := start; i < end; i++ {
		if s.lineText.Contains(i) {
			flush()
			continue
		}
		if runStart >= 0 {
			span := s.spans[i]
			if span.offset+int64(span.length)-s.spans[runStart].offset > int64(s.opts.LineWindow) {
				flush()
			}
		}
		if runStart < 0 {
			runStart = i
		}
		runEnd = i + 1
	}
	flush()
}

func (s *Session) applyLineWindow(win ByteWindow) []Message {
	s.totalSize = int64(win.TotalSize)
	s.sizeKnown = true

	records, ok := s.assembler.Feed(int64(win.Offset), win.Data, int64(win.TotalSize))
	if !ok {
		return nil
	}
	s.state = StateReady

	first := s.assembler.LineCount() - int64(len(records))
	lines := make([]string, len(records))
	for i, rec := range records {
		s.spans = append(s.spans, lineSpan{offset: rec.Offset, length: rec.Length})
		s.lineText.Merge(rec.Index, rec.Text)
		lines[i] = rec.Text
	}
	s.logger.Debug("lines assembled", "offset", win.Offset, "lines", len(records), "eof", s.assembler.EOF())

	return []Message{LineBatchMessage{
		Session:        s.id,
		Offset:         win.Offset,
		FirstLine:      first,
		Lines:          lines,
		RemainderBytes: append([]byte(nil), s.assembler.Remainder()...),
		TotalSize:      win.TotalSize,
		EOF:            s.assembler.EOF(),
	}}
}

func (s *Session) applyLineRange(res FetchResult) []Message {
	base := int64(res.window.Offset)
	data := res.window.Data
	var lines []string
	end := min(res.firstLine+int64(res.lineCount), int64(len(s.spans)))
	for i := res.firstLine; i < end; i++ {
		span := s.spans[i]
		rel := span.offset - base
		if rel < 0 || rel+int64(span.length) > int64(len(data)) {
			// File shrank since the line was discovered.
			break
		}
		text := s.fetcher.dec.Decode(data[rel : rel+int64(span.length)])
		s.lineText.Merge(i, text)
		lines = append(lines, text)
	}
	if len(lines) == 0 {
		return nil
	}
	return []Message{LineBatchMessage{
		Session:   s.id,
		Offset:    res.window.Offset,
		FirstLine: res.firstLine,
		Lines:     lines,
		TotalSize: res.window.TotalSize,
		EOF:       s.assembler.EOF(),
	}}
}
