package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-hclog"
	apppkg "github.com/kk-code-lab/rpeek/internal/app"
	"github.com/kk-code-lab/rpeek/internal/config"
	"github.com/kk-code-lab/rpeek/internal/dump"
	fsutil "github.com/kk-code-lab/rpeek/internal/fs"
	"github.com/kk-code-lab/rpeek/internal/host"
	"github.com/kk-code-lab/rpeek/internal/logging"
	"github.com/kk-code-lab/rpeek/internal/metrics"
	"github.com/kk-code-lab/rpeek/internal/preview"
	"golang.org/x/term"
)

func printHelp(w io.Writer) {
	fmt.Fprint(w, `rpeek - view large files a window at a time

USAGE:
    rpeek [OPTIONS] FILE

OPTIONS:
    -h, --help            Show this help message and exit
        --hex             Show bytes as hex rows
        --text            Show lines of text
        --dump            Print instead of opening the viewer (default when stdout is not a terminal)
        --serve           Drive a session over JSON lines on stdin/stdout
        --offset N        Dump starting at byte N
        --length N        Dump at most N bytes
        --config PATH     Read settings from a YAML file (default $RPEEK_CONFIG)
`)
}

var errHelp = errors.New("help requested")

type cliOptions struct {
	path       string
	mode       string // "", "hex" or "text"
	dump       bool
	serve      bool
	offset     int64
	length     int64
	configPath string
}

func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")

		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			i++
			return args[i], nil
		}
		takeSize := func() (int64, error) {
			raw, err := takeValue()
			if err != nil {
				return 0, err
			}
			n, err := strconv.ParseInt(raw, 0, 64)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("%s: invalid byte count %q", name, raw)
			}
			return n, nil
		}

		var err error
		switch {
		case arg == "-h" || arg == "--help":
			return opts, errHelp
		case arg == "--hex" || arg == "--text":
			if opts.mode != "" && opts.mode != arg[2:] {
				return opts, errors.New("--hex and --text are mutually exclusive")
			}
			opts.mode = arg[2:]
		case arg == "--dump":
			opts.dump = true
		case arg == "--serve":
			opts.serve = true
		case name == "--offset":
			opts.offset, err = takeSize()
		case name == "--length":
			opts.length, err = takeSize()
		case name == "--config":
			opts.configPath, err = takeValue()
		case arg == "--":
			if i+1 < len(args) {
				if opts.path != "" || i+2 < len(args) {
					return opts, errors.New("exactly one FILE expected")
				}
				opts.path = args[i+1]
			}
			i = len(args)
		case strings.HasPrefix(arg, "-") && arg != "-":
			return opts, fmt.Errorf("unknown option %s", arg)
		default:
			if opts.path != "" {
				return opts, errors.New("exactly one FILE expected")
			}
			opts.path = arg
		}
		if err != nil {
			return opts, err
		}
	}

	if opts.path == "" {
		return opts, errors.New("missing FILE")
	}
	if opts.dump && opts.serve {
		return opts, errors.New("--dump and --serve are mutually exclusive")
	}
	return opts, nil
}

// chooseMode picks the presentation for a file. UTF-16 text goes to hex
// because lines are split on the LF byte.
func chooseMode(flag string, sample fsutil.TextSample) preview.Mode {
	switch flag {
	case "hex":
		return preview.ModeHex
	case "text":
		return preview.ModeLines
	}
	if !sample.IsText {
		return preview.ModeHex
	}
	switch sample.Encoding {
	case fsutil.EncodingUTF16LE, fsutil.EncodingUTF16BE:
		return preview.ModeHex
	}
	return preview.ModeLines
}

func main() {
	// Set UTF-8 as fallback encoding so non-ASCII file names display.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args)
	if errors.Is(err, errHelp) {
		printHelp(os.Stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpeek: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try 'rpeek --help' for more information.")
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpeek: %v\n", err)
		return 1
	}

	interactive := !opts.dump && !opts.serve && term.IsTerminal(int(os.Stdout.Fd()))
	var fallback io.Writer = os.Stderr
	if interactive {
		fallback = nil
	}
	logger, logCloser, err := logging.New(cfg, fallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpeek: %v\n", err)
		return 1
	}
	defer func() {
		_ = logCloser.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Error("metrics listener stopped", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
	}

	if err := view(ctx, cfg, opts, interactive, logger); err != nil {
		logger.Error("rpeek failed", "path", opts.path, "error", err)
		fmt.Fprintf(os.Stderr, "rpeek: %v\n", err)
		return 1
	}
	return 0
}

func view(ctx context.Context, cfg *config.Config, opts cliOptions, interactive bool, logger hclog.Logger) error {
	reader := fsutil.NewChunkReader(nil)
	sample, err := reader.SniffText(opts.path)
	if err != nil {
		return err
	}
	mode := chooseMode(opts.mode, sample)
	bom := 0
	if mode == preview.ModeLines {
		bom = fsutil.BOMLength(sample.Encoding)
	}
	logger.Debug("opening file", "path", opts.path, "size", sample.Size, "mode", mode.String())

	if !interactive && !opts.serve {
		return dump.Write(ctx, os.Stdout, reader, opts.path, dump.Options{
			Mode:      mode,
			Offset:    opts.offset,
			Length:    opts.length,
			RowWidth:  cfg.RowWidth,
			Window:    cfg.LineWindow,
			BOMLength: bom,
		})
	}

	fetcher := preview.NewFetcher(reader, opts.path, fsutil.UTF8Decoder, logger)
	session, err := preview.NewSession(ctx, fetcher, mode, preview.Options{
		RowWidth:   cfg.RowWidth,
		HexWindow:  cfg.HexWindow,
		LineWindow: cfg.LineWindow,
		Overscan:   cfg.Overscan,
		CacheRows:  cfg.CacheRows,
		CacheLines: cfg.CacheLines,
		BOMLength:  bom,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	if opts.serve {
		return host.Run(ctx, session, os.Stdin, os.Stdout, logger)
	}

	screen, err := apppkg.NewScreen()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	apppkg.NewApplication(screen, session, apppkg.Options{TabWidth: cfg.TabWidth, Logger: logger}).Run(ctx)
	return nil
}
