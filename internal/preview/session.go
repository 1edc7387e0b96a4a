package preview

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/kk-code-lab/rpeek/internal/metrics"
)

// Mode selects how a session presents the file.
type Mode int

const (
	ModeLines Mode = iota
	ModeHex
)

func (m Mode) String() string {
	switch m {
	case ModeLines:
		return "lines"
	case ModeHex:
		return "hex"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is the session lifecycle. Hex sessions start Ready; line sessions
// go Empty -> Loading on the first trigger and Ready once the first window
// has been split.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const resultBuffer = 64

// Options tune a session. Zero fields take the documented defaults.
type Options struct {
	RowWidth   int // bytes per hex row, default 16
	HexWindow  int // bytes per hex fetch, default 4KiB, multiple of RowWidth
	LineWindow int // bytes per line fetch, default 64KiB
	Overscan   int // rows fetched past the visible range, default 0
	CacheRows  int // hex rows kept resident, default 65536
	CacheLines int // line texts kept resident, default 16384
	BOMLength  int // leading bytes skipped in line mode
	Logger     hclog.Logger
}

// MinCacheRows is the smallest row cache that can hold the windows a
// scheduling pass asks for without evicting rows it has just stored.
func MinCacheRows(hexWindow, rowWidth int) int {
	if hexWindow <= 0 || rowWidth <= 0 {
		return 0
	}
	return 4 * hexWindow / rowWidth
}

func (o Options) withDefaults() Options {
	if o.RowWidth <= 0 {
		o.RowWidth = DefaultRowWidth
	}
	if o.HexWindow <= 0 {
		o.HexWindow = 4 * 1024
	}
	if rem := o.HexWindow % o.RowWidth; rem != 0 {
		o.HexWindow += o.RowWidth - rem
	}
	if o.LineWindow <= 0 {
		o.LineWindow = 64 * 1024
	}
	if o.Overscan < 0 {
		o.Overscan = 0
	}
	if o.CacheRows <= 0 {
		o.CacheRows = 64 * 1024
	}
	if minRows := MinCacheRows(o.HexWindow, o.RowWidth); o.CacheRows < minRows {
		o.CacheRows = minRows
	}
	if o.CacheLines <= 0 {
		o.CacheLines = 16 * 1024
	}
	if o.Logger == nil {
		o.Logger = hclog.NewNullLogger()
	}
	return o
}

type fetchPurpose int

const (
	fetchHexWindow fetchPurpose = iota
	fetchLineWindow
	fetchLineRange
)

// fetchKey identifies a request in the pending set. offset is the aligned
// window start for hex and sequential line windows, and the first line
// index for a re-read of evicted lines.
type fetchKey struct {
	purpose fetchPurpose
	offset  int64
}

// FetchResult is produced by a fetch goroutine and must be handed back to
// Apply by the goroutine that owns the session.
type FetchResult struct {
	key       fetchKey
	firstLine int64
	lineCount int
	window    ByteWindow
	err       error
}

// Err returns the fetch failure, if any.
func (r FetchResult) Err() error {
	return r.err
}

type lineSpan struct {
	offset int64
	length int
}

// VisibleRow is one row to draw. Loaded is false for a gap whose data has
// not arrived; renderers draw a placeholder there.
type VisibleRow struct {
	Index  int64
	Loaded bool
	Bytes  []byte
	Text   string
}

// Session holds the viewport, caches and in-flight requests for one open
// file. All methods except Results must be called from a single goroutine;
// fetches run on their own goroutines and only send on the result channel.
type Session struct {
	id      string
	mode    Mode
	opts    Options
	fetcher *Fetcher
	logger  hclog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	results chan FetchResult

	state     State
	viewport  Viewport
	totalSize int64
	sizeKnown bool
	lastErr   error

	rows *Cache[[]byte]

	lineText  *Cache[string]
	spans     []lineSpan
	assembler *LineAssembler

	pending map[fetchKey]struct{}
}

// NewSession prepares a session over fetcher. No I/O happens until the
// first event.
func NewSession(ctx context.Context, fetcher *Fetcher, mode Mode, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	id := uuid.NewString()

	s := &Session{
		id:      id,
		mode:    mode,
		opts:    opts,
		fetcher: fetcher,
		logger:  opts.Logger.With("session", id, "mode", mode.String()),
		results: make(chan FetchResult, resultBuffer),
		pending: make(map[fetchKey]struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	switch mode {
	case ModeHex:
		rows, err := NewCache[[]byte]("rows", opts.CacheRows)
		if err != nil {
			return nil, err
		}
		s.rows = rows
		s.state = StateReady
	case ModeLines:
		lines, err := NewCache[string]("lines", opts.CacheLines)
		if err != nil {
			return nil, err
		}
		s.lineText = lines
		s.assembler = NewLineAssembler(0, opts.BOMLength, fetcher.dec)
		s.state = StateEmpty
	default:
		return nil, fmt.Errorf("unknown mode %v", mode)
	}
	return s, nil
}

// ID returns the session identifier stamped on outbound messages.
func (s *Session) ID() string { return s.id }

// Mode returns the presentation mode.
func (s *Session) Mode() Mode { return s.mode }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Path returns the previewed file.
func (s *Session) Path() string { return s.fetcher.Path() }

// RowWidth returns the number of bytes per hex row.
func (s *Session) RowWidth() int { return s.opts.RowWidth }

// Viewport returns the last viewport received.
func (s *Session) Viewport() Viewport { return s.viewport }

// Results delivers completed fetches. Safe to read from any goroutine.
func (s *Session) Results() <-chan FetchResult { return s.results }

// Pending returns the number of fetches issued and not yet applied.
func (s *Session) Pending() int { return len(s.pending) }

// LastError returns the most recent fetch failure, cleared by the next
// successful fetch.
func (s *Session) LastError() error { return s.lastErr }

// TotalSize returns the file size reported by the latest fetch.
func (s *Session) TotalSize() (int64, bool) { return s.totalSize, s.sizeKnown }

// TotalRows returns the number of rows (hex) or discovered lines. The
// boolean reports whether the count is final.
func (s *Session) TotalRows() (int64, bool) {
	switch s.mode {
	case ModeHex:
		if !s.sizeKnown {
			return 0, false
		}
		w := int64(s.opts.RowWidth)
		return (s.totalSize + w - 1) / w, true
	default:
		return int64(len(s.spans)), s.assembler.EOF()
	}
}

// Close cancels outstanding fetches. Results already queued are dropped.
func (s *Session) Close() {
	s.cancel()
}

// Handle reacts to an inbound event by issuing whatever fetches the
// current viewport needs.
func (s *Session) Handle(ev Event) {
	switch ev := ev.(type) {
	case ReadyEvent:
		s.logger.Debug("consumer ready")
	case ViewportChangedEvent:
		s.viewport = ev.Viewport()
	default:
		return
	}
	s.schedule()
}

// Apply folds a fetch result into the caches and returns the messages to
// forward to the renderer. It may issue follow-up fetches.
func (s *Session) Apply(res FetchResult) []Message {
	if _, ok := s.pending[res.key]; ok {
		delete(s.pending, res.key)
		metrics.FetchesInFlight.Dec()
	}

	if res.err != nil {
		s.lastErr = res.err
		if res.key.purpose == fetchLineWindow && s.state == StateLoading {
			s.state = StateEmpty
		}
		s.logger.Warn("fetch failed", "offset", res.window.Offset, "error", res.err)
		return []Message{ErrorMessage{
			Session: s.id,
			Source:  "fetch",
			Offset:  res.window.Offset,
			Path:    s.fetcher.Path(),
			Error:   res.err.Error(),
		}}
	}
	s.lastErr = nil

	var msgs []Message
	switch res.key.purpose {
	case fetchHexWindow:
		msgs = s.applyHexWindow(res.window)
		// Rows of this window the cache could not keep are not fetched
		// again from here, or applying it would loop.
		if s.ctx.Err() == nil {
			s.scheduleHexExcept(res.key.offset)
		}
		return msgs
	case fetchLineWindow:
		msgs = s.applyLineWindow(res.window)
	case fetchLineRange:
		// Re-reads only restore text; they never widen what is known, so
		// there is nothing new to schedule.
		return s.applyLineRange(res)
	}

	s.schedule()
	return msgs
}

// Visible returns the rows inside the viewport, without overscan, with
// placeholders for anything not cached.
func (s *Session) Visible() []VisibleRow {
	total, _ := s.TotalRows()
	start, end := s.viewport.VisibleRange(total, 0)
	if end <= start {
		return nil
	}

	out := make([]VisibleRow, 0, end-start)
	for i := start; i < end; i++ {
		row := VisibleRow{Index: i}
		if s.mode == ModeHex {
			row.Bytes, row.Loaded = s.rows.Get(i)
		} else {
			row.Text, row.Loaded = s.lineText.Get(i)
		}
		out = append(out, row)
	}
	return out
}

func (s *Session) schedule() {
	if s.ctx.Err() != nil {
		return
	}
	switch s.mode {
	case ModeHex:
		s.scheduleHex()
	case ModeLines:
		s.scheduleLines()
	}
}

func (s *Session) issue(key fetchKey, offset int64, length int, firstLine int64, lineCount int) {
	if _, ok := s.pending[key]; ok {
		metrics.DuplicateFetchesSkipped.Inc()
		return
	}
	s.pending[key] = struct{}{}
	metrics.FetchesInFlight.Inc()
	s.logger.Trace("fetch issued", "offset", offset, "length", length)

	ctx := s.ctx
	go func() {
		win, err := s.fetcher.FetchByteWindow(ctx, uint64(offset), uint32(length))
		if err != nil {
			win = ByteWindow{Offset: uint64(offset)}
		}
		res := FetchResult{key: key, firstLine: firstLine, lineCount: lineCount, window: win, err: err}
		select {
		case s.results <- res:
		case <-ctx.Done():
			metrics.FetchesInFlight.Dec()
		}
	}()
}
