// Package logging builds the process logger. The interactive viewer owns the
// terminal, so logs go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/kk-code-lab/rpeek/internal/config"
)

// New returns a logger for cfg. When cfg.LogFile is empty, fallback receives
// the output; a nil fallback discards it. The returned closer releases the
// log file, if one was opened.
func New(cfg *config.Config, fallback io.Writer) (hclog.Logger, io.Closer, error) {
	out := fallback
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f
	}
	if out == nil {
		return hclog.NewNullLogger(), closer, nil
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "rpeek",
		Level:  hclog.Level(cfg.LogLevel),
		Output: out,
	})
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
