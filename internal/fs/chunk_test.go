package fs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func newMemReader(t *testing.T, name string, data []byte) *ChunkReader {
	t.Helper()
	mem := afero.NewMemMapFs()
	if err := afero.WriteFile(mem, name, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return NewChunkReader(mem)
}

func TestReadChunkBytesReadMatchesClampedLength(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 10)
	r := newMemReader(t, "/data.bin", data)

	tests := []struct {
		offset int64
		length int
	}{
		{0, 1},
		{0, 100},
		{0, 4096},
		{37, 16},
		{90, 50},
		{99, 1},
	}
	for _, tt := range tests {
		res, err := r.ReadChunk("/data.bin", tt.offset, tt.length)
		if err != nil {
			t.Fatalf("ReadChunk(%d,%d): %v", tt.offset, tt.length, err)
		}
		want := tt.length
		if remaining := len(data) - int(tt.offset); remaining < want {
			want = remaining
		}
		if res.BytesRead != want || len(res.Data) != want {
			t.Fatalf("ReadChunk(%d,%d) read %d (len %d), want %d", tt.offset, tt.length, res.BytesRead, len(res.Data), want)
		}
		if !bytes.Equal(res.Data, data[tt.offset:int(tt.offset)+want]) {
			t.Fatalf("ReadChunk(%d,%d) returned wrong bytes", tt.offset, tt.length)
		}
		if res.TotalSize != int64(len(data)) {
			t.Fatalf("TotalSize = %d, want %d", res.TotalSize, len(data))
		}
	}
}

func TestReadChunkPastEndIsEmpty(t *testing.T) {
	r := newMemReader(t, "/hundred.bin", make([]byte, 100))

	for _, offset := range []int64{100, 200} {
		res, err := r.ReadChunk("/hundred.bin", offset, 50)
		if err != nil {
			t.Fatalf("ReadChunk(%d): unexpected error %v", offset, err)
		}
		if res.BytesRead != 0 || len(res.Data) != 0 {
			t.Fatalf("ReadChunk(%d) read %d bytes, want 0", offset, res.BytesRead)
		}
		if res.TotalSize != 100 {
			t.Fatalf("TotalSize = %d, want 100", res.TotalSize)
		}
	}
}

func TestReadChunkMissingFileIsIoError(t *testing.T) {
	r := NewChunkReader(afero.NewMemMapFs())

	_, err := r.ReadChunk("/missing.log", 0, 10)
	var ioErr *IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IoError, got %T (%v)", err, err)
	}
	if ioErr.Path != "/missing.log" || ioErr.Op != "stat" {
		t.Fatalf("unexpected IoError fields: %+v", ioErr)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", ioErr.Err)
	}
}

func TestReadChunkDirectoryIsIoError(t *testing.T) {
	dir := t.TempDir()
	r := NewChunkReader(nil)

	_, err := r.ReadChunk(dir, 0, 10)
	if !errors.Is(err, ErrNotRegular) {
		t.Fatalf("expected ErrNotRegular, got %v", err)
	}
}

func TestReadChunkRejectsInvalidRange(t *testing.T) {
	r := newMemReader(t, "/a.txt", []byte("abc"))

	for _, tt := range []struct {
		start  int64
		length int
	}{{-1, 10}, {0, 0}, {0, -5}} {
		_, err := r.ReadChunk("/a.txt", tt.start, tt.length)
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("ReadChunk(%d,%d): expected RangeError, got %v", tt.start, tt.length, err)
		}
	}
}

func TestReadChunkFromOSFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letters.txt")
	if err := os.WriteFile(path, []byte("ABCDEFGHIJ"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := NewChunkReader(nil)

	res, err := r.ReadChunk(path, 4, 4)
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if string(res.Data) != "EFGH" {
		t.Fatalf("ReadChunk returned %q, want EFGH", res.Data)
	}
}

func TestSniffText(t *testing.T) {
	r := newMemReader(t, "/app.log", []byte("\xEF\xBB\xBFhello\nworld\n"))

	sample, err := r.SniffText("/app.log")
	if err != nil {
		t.Fatalf("SniffText: %v", err)
	}
	if !sample.IsText || sample.Encoding != EncodingUTF8BOM || sample.Size != 15 {
		t.Fatalf("unexpected sample %+v", sample)
	}
}
