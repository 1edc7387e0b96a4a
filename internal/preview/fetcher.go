package preview

import (
	"context"
	"math"
	"time"

	"github.com/hashicorp/go-hclog"
	fsutil "github.com/kk-code-lab/rpeek/internal/fs"
	"github.com/kk-code-lab/rpeek/internal/metrics"
)

// ByteWindow is the answer to a byte-window request.
type ByteWindow struct {
	Offset    uint64
	Data      []byte
	BytesRead uint32
	TotalSize uint64
}

// LineBatch is the answer to a line request over one window. Remainder is
// the unterminated tail; the caller prefixes it to the next window, or
// treats it as the last line when the window reached the end of the file.
type LineBatch struct {
	Offset    uint64
	Lines     []string
	Remainder []byte
	TotalSize uint64
}

// Fetcher answers window requests for one file. Each request is a single
// open/read/close, so requests may run concurrently.
type Fetcher struct {
	reader *fsutil.ChunkReader
	path   string
	dec    fsutil.Decoder
	logger hclog.Logger
}

// NewFetcher binds reader to path. A nil decoder means lossy UTF-8.
func NewFetcher(reader *fsutil.ChunkReader, path string, dec fsutil.Decoder, logger hclog.Logger) *Fetcher {
	if dec == nil {
		dec = fsutil.UTF8Decoder
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Fetcher{reader: reader, path: path, dec: dec, logger: logger}
}

// Path returns the file this fetcher reads.
func (f *Fetcher) Path() string {
	return f.path
}

// FetchByteWindow reads up to length bytes at offset. An offset at or past
// the end of the file returns an empty window, not an error.
func (f *Fetcher) FetchByteWindow(ctx context.Context, offset uint64, length uint32) (ByteWindow, error) {
	res, err := f.read(ctx, string(KindByteWindow), offset, length)
	if err != nil {
		return ByteWindow{}, err
	}
	return ByteWindow{
		Offset:    offset,
		Data:      res.Data,
		BytesRead: uint32(res.BytesRead),
		TotalSize: uint64(res.TotalSize),
	}, nil
}

// FetchLines reads one window at offset and splits it into lines.
func (f *Fetcher) FetchLines(ctx context.Context, offset uint64, length uint32) (LineBatch, error) {
	res, err := f.read(ctx, string(KindLineBatch), offset, length)
	if err != nil {
		return LineBatch{}, err
	}
	lines, remainder := SplitLines(res.Data, f.dec)
	return LineBatch{
		Offset:    offset,
		Lines:     lines,
		Remainder: remainder,
		TotalSize: uint64(res.TotalSize),
	}, nil
}

func (f *Fetcher) read(ctx context.Context, kind string, offset uint64, length uint32) (fsutil.ChunkResult, error) {
	if err := ctx.Err(); err != nil {
		return fsutil.ChunkResult{}, err
	}
	// An offset past MaxInt64 is past the end of any file; reading at
	// MaxInt64 still stats it and yields an empty window with its size.
	start := int64(min(offset, math.MaxInt64))
	if length == 0 {
		return fsutil.ChunkResult{}, &fsutil.RangeError{Start: start, Length: 0}
	}
	// ReadChunk clamps to the bytes remaining, so a huge length only needs
	// to fit in an int.
	n := int(min(uint64(length), math.MaxInt32))

	started := time.Now()
	res, err := f.reader.ReadChunk(f.path, start, n)
	metrics.FetchLatency.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.FetchesTotal.WithLabelValues(kind, "error").Inc()
		f.logger.Warn("chunk read failed", "path", f.path, "offset", offset, "length", length, "error", err)
		return fsutil.ChunkResult{}, err
	}
	metrics.FetchesTotal.WithLabelValues(kind, "ok").Inc()
	metrics.BytesRead.Add(float64(res.BytesRead))
	f.logger.Trace("chunk read", "offset", offset, "bytes", res.BytesRead, "total", res.TotalSize)
	return res, nil
}
