// Package host drives a preview session over a JSON-lines stream so an
// external editor or web view can render it.
package host

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/kk-code-lab/rpeek/internal/preview"
)

const maxEventSize = 1 << 20

type inputLine struct {
	data []byte
	err  error
	eof  bool
}

// Run reads events from r, one JSON object per line, and writes every
// message the session produces to w as it arrives. It returns when ctx is
// cancelled, or after r is exhausted and all pending fetches have been
// written.
func Run(ctx context.Context, session *preview.Session, r io.Reader, w io.Writer, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("host")

	done := make(chan struct{})
	defer close(done)
	lines := make(chan inputLine)
	go readLines(r, lines, done)

	out := bufio.NewWriter(w)
	write := func(msgs []preview.Message) error {
		for _, msg := range msgs {
			data, err := preview.EncodeMessage(msg)
			if err != nil {
				return err
			}
			data = append(data, '\n')
			if _, err := out.Write(data); err != nil {
				return err
			}
		}
		return out.Flush()
	}

	inputOpen := true
	for inputOpen || session.Pending() > 0 {
		in := lines
		if !inputOpen {
			in = nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case res := <-session.Results():
			if err := write(session.Apply(res)); err != nil {
				return fmt.Errorf("write message: %w", err)
			}

		case line := <-in:
			if line.eof {
				inputOpen = false
				if line.err != nil {
					logger.Warn("input closed with error", "error", line.err)
				}
				logger.Debug("input closed", "pending", session.Pending())
				continue
			}
			ev, err := preview.DecodeEvent(line.data)
			if err != nil {
				logger.Debug("rejected event", "error", err)
				msg := preview.ErrorMessage{Session: session.ID(), Source: "decode", Error: err.Error()}
				if err := write([]preview.Message{msg}); err != nil {
					return fmt.Errorf("write message: %w", err)
				}
				continue
			}
			session.Handle(ev)
		}
	}
	return nil
}

func readLines(r io.Reader, out chan<- inputLine, done <-chan struct{}) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		select {
		case out <- inputLine{data: append([]byte(nil), line...)}:
		case <-done:
			return
		}
	}
	select {
	case out <- inputLine{eof: true, err: scanner.Err()}:
	case <-done:
	}
}
