package logs

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

const logFile = "graphtools.log"

// ConsoleLogger builds the stderr logger and installs it as the slog default.
// Colors are enabled only when stderr is a terminal.
func ConsoleLogger(verbose bool) *slog.Logger {
	w := os.Stderr

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(w.Fd()),
	}))
	slog.SetDefault(logger)
	return logger
}

// FileLogger appends JSON records to graphtools.log. The file handler stays at
// debug so the raw Graph error text is preserved for forensics even when the
// console is at info.
func FileLogger() (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}
	return slog.New(slog.NewJSONHandler(f, opts)), f, nil
}
