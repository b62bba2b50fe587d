// Package logger exposes the process-wide leveled logger. The output writer
// and the verbosity can both be swapped while replay goroutines are logging.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"log/slog"
)

var (
	minLevel slog.LevelVar
	current  atomic.Pointer[slog.Logger]
)

func init() {
	minLevel.Set(slog.LevelInfo)
	current.Store(build(os.Stdout))
}

func build(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &minLevel}))
}

// SetOutput redirects all subsequent log lines to w.
func SetOutput(w io.Writer) {
	current.Store(build(w))
}

// SetLevel adjusts the verbosity. Recognized values are debug, info, warn
// and error; anything else resets the logger to info.
func SetLevel(level string) {
	minLevel.Set(parseLevel(level))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debugf(format string, v ...any) {
	current.Load().Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...any) {
	current.Load().Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	current.Load().Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	current.Load().Error(fmt.Sprintf(format, v...))
}
