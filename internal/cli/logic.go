package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dirtree/internal/dirtree"
)

func logic(ctx context.Context, options dirtree.Options, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger(stderr, options.Debug)
	defer log.Sync() //nolint:errcheck // Nothing to do about a failed flush

	enableProgress := options.Output != "json" && !options.Debug && isTerminal(stderr)

	// Simple progress callback that prints directly to stderr
	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files sized, %s summed",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	report, err := dirtree.Run(ctx, options, log, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	format := options.Formatter
	if format == nil {
		format = dirtree.Formatter(options.Binary)
	}

	switch options.Output {
	case "json":
		return PrintJSON(report, stdout)
	case "plain":
		return PrintPlain(report, format, stdout)
	case "grid":
		return PrintGrid(report, format, stdout)
	default:
		return fmt.Errorf("unknown output format: %s", options.Output)
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}
