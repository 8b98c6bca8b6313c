package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.Mutex
	global *slog.Logger
)

// Init sets up the process-wide logger. level is one of debug/info/warn/error
// (case-insensitive, default info); json switches the handler to JSON output
// for log collectors.
func Init(level string, json bool) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if json {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	l := slog.New(h)
	mu.Lock()
	global = l
	mu.Unlock()
	slog.SetDefault(l)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Get returns the process logger, initializing a default one on first use so
// packages can log before main configures anything.
func Get() *slog.Logger {
	mu.Lock()
	l := global
	mu.Unlock()
	if l == nil {
		Init("info", false)
		return Get()
	}
	return l
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// Fatal logs at error level and exits the process.
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}
