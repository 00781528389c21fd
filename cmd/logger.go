package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/k1LoW/errors"
	"github.com/mattn/go-colorable"
	slogmulti "github.com/samber/slog-multi"

	"github.com/ByLCY/placard/config"
)

const logFileName = "placard.log"

// newLogger fans records out to stderr and to a JSON log file in the state directory.
// The file always records debug level so that error reports have context.
func newLogger(verbose bool) (_ *slog.Logger, _ func() error, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	dir := config.StateHomePath()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return newFanoutLogger(newConsoleHandler(colorable.NewColorableStderr(), level), f), f.Close, nil
}

func newConsoleHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

func newFanoutLogger(console slog.Handler, file io.Writer) *slog.Logger {
	return slog.New(slogmulti.Fanout(
		console,
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))
}
