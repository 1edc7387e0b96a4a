package dump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"

	fsutil "github.com/kk-code-lab/rpeek/internal/fs"
	"github.com/kk-code-lab/rpeek/internal/preview"
)

func memReader(t *testing.T, path string, data []byte) *fsutil.ChunkReader {
	t.Helper()
	mem := afero.NewMemMapFs()
	if err := afero.WriteFile(mem, path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return fsutil.NewChunkReader(mem)
}

func dumpString(t *testing.T, reader *fsutil.ChunkReader, path string, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(context.Background(), &buf, reader, path, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.String()
}

func TestWriteHex(t *testing.T) {
	r := memReader(t, "/ten.bin", []byte("ABCDEFGHIJ"))
	got := dumpString(t, r, "/ten.bin", Options{Mode: preview.ModeHex, RowWidth: 4, Window: 4})
	want := strings.Join([]string{
		"00000000  41 42 43 44  ABCD",
		"00000004  45 46 47 48  EFGH",
		"00000008  49 4A        IJ",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("hex dump:\n%q\nwant\n%q", got, want)
	}
}

func TestWriteHexRange(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	r := memReader(t, "/bytes.bin", data)
	got := dumpString(t, r, "/bytes.bin", Options{Mode: preview.ModeHex, Offset: 40, Length: 16})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "00000020") || !strings.HasPrefix(lines[1], "00000030") {
		t.Fatalf("unexpected rows %q", lines)
	}
}

func TestWriteLinesAcrossWindows(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "row %02d\n", i)
	}
	b.WriteString("tail")
	r := memReader(t, "/rows.txt", []byte(b.String()))

	got := dumpString(t, r, "/rows.txt", Options{Mode: preview.ModeLines, Window: 13})
	if got != b.String()+"\n" {
		t.Fatalf("line dump differs:\n%q", got)
	}
}

func TestWriteLinesRangeEndsMidLine(t *testing.T) {
	r := memReader(t, "/abc.txt", []byte("alpha\nbeta\ngamma\n"))
	got := dumpString(t, r, "/abc.txt", Options{Mode: preview.ModeLines, Offset: 6, Length: 7})
	if got != "beta\nga\n" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteLinesSkipsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("first\n")...)
	r := memReader(t, "/bom.txt", data)
	got := dumpString(t, r, "/bom.txt", Options{Mode: preview.ModeLines, BOMLength: 3})
	if got != "first\n" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteMissingFile(t *testing.T) {
	r := fsutil.NewChunkReader(afero.NewMemMapFs())
	err := Write(context.Background(), &bytes.Buffer{}, r, "/nope", Options{Mode: preview.ModeHex})
	var ioErr *fsutil.IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IoError, got %v", err)
	}
}
