package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is a thin structured wrapper around slog that carries the
// package/function context along the call chain. Error-returning variants
// (Err, Error, ErrMsg) both log and produce the error so call sites can do
// `return log.Err(...)` in one statement.
type Logger struct {
	slog  *slog.Logger
	scope string
}

func New(scope string) Logger {
	return Logger{
		slog:  slog.Default().With("scope", scope),
		scope: scope,
	}
}

func (l Logger) Function(name string) Logger {
	return Logger{
		slog:  l.slog.With("function", name),
		scope: l.scope,
	}
}

func (l Logger) File(name string) Logger {
	return Logger{
		slog:  l.slog.With("file", name),
		scope: l.scope,
	}
}

func (l Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Err logs msg with the underlying error and returns a wrapped error.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.slog.Error(msg, append(args, "error", err)...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.slog.Error(msg, args...)
	return fmt.Errorf("%s", msg)
}

func (l Logger) ErrMsg(msg string) error {
	l.slog.Error(msg)
	return fmt.Errorf("%s", msg)
}

// Er logs the error without returning one, for paths that continue.
func (l Logger) Er(msg string, err error, args ...any) {
	l.slog.Error(msg, append(args, "error", err)...)
}

func (l Logger) ErMsg(msg string) {
	l.slog.Error(msg)
}

// Setup installs the process-wide slog handler. Call once from main.
func Setup(level slog.Level) {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
