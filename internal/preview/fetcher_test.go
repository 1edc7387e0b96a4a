package preview

import (
	"bytes"
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	fsutil "github.com/kk-code-lab/rpeek/internal/fs"
)

func newMemFetcher(t *testing.T, path string, data []byte) (*Fetcher, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	if data != nil {
		if err := afero.WriteFile(mem, path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return NewFetcher(fsutil.NewChunkReader(mem), path, nil, nil), mem
}

func TestFetchByteWindowBytesReadIsClamped(t *testing.T) {
	data := bytes.Repeat([]byte{0x5A}, 10000)
	f, _ := newMemFetcher(t, "/blob.bin", data)

	for _, off := range []uint64{0, 4096, 8192, 9999, 10000, 20000} {
		win, err := f.FetchByteWindow(context.Background(), off, 4096)
		if err != nil {
			t.Fatalf("FetchByteWindow(%d): %v", off, err)
		}
		want := 0
		if off < uint64(len(data)) {
			want = min(4096, len(data)-int(off))
		}
		if int(win.BytesRead) != want || len(win.Data) != want {
			t.Fatalf("offset %d: bytesRead=%d len=%d, want %d", off, win.BytesRead, len(win.Data), want)
		}
		if win.TotalSize != uint64(len(data)) || win.Offset != off {
			t.Fatalf("offset %d: unexpected header %+v", off, win)
		}
	}
}

func TestFetchByteWindowRejectsZeroLength(t *testing.T) {
	f, _ := newMemFetcher(t, "/blob.bin", []byte("x"))
	_, err := f.FetchByteWindow(context.Background(), 0, 0)
	var rangeErr *fsutil.RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected RangeError, got %v", err)
	}
}

func TestFetchByteWindowHonoursCancelledContext(t *testing.T) {
	f, _ := newMemFetcher(t, "/blob.bin", []byte("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.FetchByteWindow(ctx, 0, 16); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchLinesReturnsRemainder(t *testing.T) {
	f, _ := newMemFetcher(t, "/log.txt", []byte("alpha\nbeta\ngam"))

	batch, err := f.FetchLines(context.Background(), 0, 64)
	if err != nil {
		t.Fatalf("FetchLines: %v", err)
	}
	if !reflect.DeepEqual(batch.Lines, []string{"alpha", "beta"}) {
		t.Fatalf("lines = %q", batch.Lines)
	}
	if string(batch.Remainder) != "gam" || batch.TotalSize != 14 {
		t.Fatalf("unexpected batch %+v", batch)
	}

	batch, err = f.FetchLines(context.Background(), 6, 5)
	if err != nil {
		t.Fatalf("FetchLines: %v", err)
	}
	if !reflect.DeepEqual(batch.Lines, []string{"beta"}) || len(batch.Remainder) != 0 {
		t.Fatalf("unexpected mid-file batch %+v", batch)
	}
}

func TestFetchMissingFileIsIoError(t *testing.T) {
	f, _ := newMemFetcher(t, "/missing.txt", nil)
	_, err := f.FetchLines(context.Background(), 0, 64)
	var ioErr *fsutil.IoError
	if !errors.As(err, &ioErr) || ioErr.Path != "/missing.txt" {
		t.Fatalf("expected IoError for path, got %v", err)
	}
}

func TestFetchByteWindowClampsOversizedRequests(t *testing.T) {
	f, _ := newMemFetcher(t, "/ten.bin", []byte("ABCDEFGHIJ"))

	win, err := f.FetchByteWindow(context.Background(), 0, math.MaxUint32)
	if err != nil {
		t.Fatalf("FetchByteWindow(0, MaxUint32): %v", err)
	}
	if win.BytesRead != 10 || string(win.Data) != "ABCDEFGHIJ" || win.TotalSize != 10 {
		t.Fatalf("unexpected window %+v", win)
	}

	win, err = f.FetchByteWindow(context.Background(), 4, math.MaxUint32)
	if err != nil {
		t.Fatalf("FetchByteWindow(4, MaxUint32): %v", err)
	}
	if win.BytesRead != 6 || string(win.Data) != "EFGHIJ" {
		t.Fatalf("unexpected tail window %+v", win)
	}
}

func TestFetchByteWindowPastMaxInt64IsEmpty(t *testing.T) {
	f, _ := newMemFetcher(t, "/ten.bin", []byte("ABCDEFGHIJ"))

	win, err := f.FetchByteWindow(context.Background(), math.MaxUint64, 10)
	if err != nil {
		t.Fatalf("FetchByteWindow(MaxUint64, 10): %v", err)
	}
	if win.BytesRead != 0 || len(win.Data) != 0 || win.TotalSize != 10 || win.Offset != math.MaxUint64 {
		t.Fatalf("unexpected window %+v", win)
	}

	batch, err := f.FetchLines(context.Background(), math.MaxUint64, 10)
	if err != nil || len(batch.Lines) != 0 || batch.TotalSize != 10 {
		t.Fatalf("FetchLines past end = %+v, %v", batch, err)
	}
}
