// Package dump renders a byte range of a file without a terminal, window by
// window, in the same row and line formats the viewer uses.
package dump

import (
	"bufio"
	"context"
	"fmt"
	"io"

	fsutil "github.com/kk-code-lab/rpeek/internal/fs"
	"github.com/kk-code-lab/rpeek/internal/preview"
)

// Options selects what to print. Length zero means to the end of the file.
type Options struct {
	Mode      preview.Mode
	Offset    int64
	Length    int64
	RowWidth  int
	Window    int
	Decoder   fsutil.Decoder
	BOMLength int
}

func (o Options) withDefaults() Options {
	if o.RowWidth <= 0 {
		o.RowWidth = preview.DefaultRowWidth
	}
	if o.Window <= 0 {
		o.Window = 64 * 1024
	}
	if rem := o.Window % o.RowWidth; rem != 0 {
		o.Window += o.RowWidth - rem
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.Length < 0 {
		o.Length = 0
	}
	return o
}

// Write prints the selected range of path to w.
func Write(ctx context.Context, w io.Writer, reader *fsutil.ChunkReader, path string, opts Options) error {
	opts = opts.withDefaults()
	out := bufio.NewWriter(w)

	var err error
	switch opts.Mode {
	case preview.ModeHex:
		err = writeHex(ctx, out, reader, path, opts)
	case preview.ModeLines:
		err = writeLines(ctx, out, reader, path, opts)
	default:
		err = fmt.Errorf("unknown mode %v", opts.Mode)
	}
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}
	return err
}

// limit returns the exclusive end of the requested range within a file of
// totalSize bytes.
func limit(opts Options, totalSize int64) int64 {
	if opts.Length == 0 || opts.Offset+opts.Length > totalSize {
		return totalSize
	}
	return opts.Offset + opts.Length
}

func writeHex(ctx context.Context, out *bufio.Writer, reader *fsutil.ChunkReader, path string, opts Options) error {
	width := int64(opts.RowWidth)
	offset := opts.Offset / width * width
	end := int64(-1)

	for end < 0 || offset < end {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := reader.ReadChunk(path, offset, opts.Window)
		if err != nil {
			return err
		}
		if end < 0 {
			end = limit(opts, res.TotalSize)
		}
		if res.BytesRead == 0 {
			return nil
		}

		for _, row := range preview.SplitRows(res.Data, offset, opts.RowWidth) {
			if row.Index*width >= end {
				return nil
			}
			if _, err := fmt.Fprintln(out, preview.FormatRow(row, opts.RowWidth)); err != nil {
				return err
			}
		}
		offset += int64(res.BytesRead)
	}
	return nil
}

func writeLines(ctx context.Context, out *bufio.Writer, reader *fsutil.ChunkReader, path string, opts Options) error {
	asm := preview.NewLineAssembler(opts.Offset, opts.BOMLength, opts.Decoder)
	end := int64(-1)

	for !asm.EOF() {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := asm.NextOffset()
		length := opts.Window
		if end >= 0 && end-next < int64(length) {
			length = max(int(end-next), 1)
		}
		res, err := reader.ReadChunk(path, next, length)
		if err != nil {
			return err
		}
		if end < 0 {
			end = limit(opts, res.TotalSize)
			if next+int64(len(res.Data)) > end {
				res.Data = res.Data[:max(end-next, 0)]
			}
		}

		// The assembler flushes the partial last line once it reaches the
		// end of the requested range.
		records, _ := asm.Feed(next, res.Data, end)
		for _, rec := range records {
			if _, err := fmt.Fprintln(out, rec.Text); err != nil {
				return err
			}
		}
	}
	return nil
}
