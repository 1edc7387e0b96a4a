package fs

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// ErrNotRegular is wrapped by IoError when the path is a directory or device.
var ErrNotRegular = errors.New("not a regular file")

// IoError reports a failed stat, open or read of a previewed file.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// RangeError reports a chunk request outside the valid domain.
type RangeError struct {
	Start  int64
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid chunk range: start=%d length=%d", e.Start, e.Length)
}

// ChunkResult holds one bounded window of a file.
type ChunkResult struct {
	Data      []byte
	BytesRead int
	// TotalSize is the file size observed when the chunk was read. Two reads
	// of the same file may disagree if it changed in between.
	TotalSize int64
}

// ChunkReader performs positioned, bounded reads. It keeps no descriptors
// between calls, so a single reader may be shared by concurrent fetches.
type ChunkReader struct {
	fs afero.Fs
}

// NewChunkReader returns a reader over fsys, or the OS filesystem when nil.
func NewChunkReader(fsys afero.Fs) *ChunkReader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &ChunkReader{fs: fsys}
}

// ReadChunk reads up to length bytes of path starting at start. A start at
// or beyond the end of the file is not an error; it yields an empty result.
func (r *ChunkReader) ReadChunk(path string, start int64, length int) (ChunkResult, error) {
	if start < 0 || length <= 0 {
		return ChunkResult{}, &RangeError{Start: start, Length: length}
	}

	info, err := r.fs.Stat(path)
	if err != nil {
		return ChunkResult{}, &IoError{Op: "stat", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return ChunkResult{}, &IoError{Op: "stat", Path: path, Err: ErrNotRegular}
	}

	totalSize := info.Size()
	if start >= totalSize {
		return ChunkResult{Data: []byte{}, TotalSize: totalSize}, nil
	}

	readLength := int64(length)
	if remaining := totalSize - start; remaining < readLength {
		readLength = remaining
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return ChunkResult{}, &IoError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, readLength)
	n, err := f.ReadAt(buf, start)
	if err != nil && !errors.Is(err, io.EOF) {
		return ChunkResult{}, &IoError{Op: "read", Path: path, Err: err}
	}

	return ChunkResult{
		Data:      buf[:n],
		BytesRead: n,
		TotalSize: totalSize,
	}, nil
}
