// Package log provides context-aware logging for wsi.
//
// Human-facing diagnostics go to the writer passed to [New] (stderr in the CLI).
// An optional rotated JSON log file can be attached with [Logger.AttachFile];
// it receives every record at or above its level regardless of the verbose
// and quiet flags: commands and regular output at info, warnings at warn,
// [Logger.Debug] records at debug.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// Logger provides output and verbose command logging.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool

	file   *zap.SugaredLogger
	closer func() error
}

// FileConfig configures the rotated log file sink.
type FileConfig struct {
	Path       string
	Level      string // debug, info, warn, error
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New creates a new logger. quiet suppresses all terminal output and wins over verbose.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// AttachFile starts mirroring log records to a rotated JSON file.
// An empty path is a no-op.
func (l *Logger) AttachFile(cfg FileConfig) error {
	if cfg.Path == "" {
		return nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 14
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), level)
	z := zap.New(core)

	l.file = z.Sugar()
	l.closer = func() error {
		_ = z.Sync()
		return w.Close()
	}
	return nil
}

// Close flushes and closes the log file, if one is attached.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer()
	l.file = nil
	l.closer = nil
	return err
}

// Printf writes formatted output.
func (l *Logger) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.file != nil {
		l.file.Info(strings.TrimRight(msg, "\n"))
	}
	if l.quiet {
		return
	}
	io.WriteString(l.out, msg)
}

// Println writes a line of output.
func (l *Logger) Println(args ...any) {
	msg := fmt.Sprintln(args...)
	if l.file != nil {
		l.file.Info(strings.TrimRight(msg, "\n"))
	}
	if l.quiet {
		return
	}
	io.WriteString(l.out, msg)
}

// Warnf writes "Warning: " followed by the formatted message and a newline.
func (l *Logger) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.file != nil {
		l.file.Warn(msg)
	}
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "Warning: %s\n", msg)
}

// Debug logs a message with key/value pairs.
// Printed as "msg key=val ..." only in verbose mode; incomplete pairs are dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	keyvals = keyvals[:len(keyvals)-len(keyvals)%2]

	if l.file != nil {
		l.file.Debugw(msg, keyvals...)
	}

	if !l.IsVerbose() {
		return
	}

	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}

// Command logs an external command execution.
// The returned func records the duration once the command finished.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))

	return func(d time.Duration) {
		if l.file != nil {
			l.file.Infow("exec", "dir", dir, "cmd", line, "duration", d)
		}
		if !l.IsVerbose() {
			return
		}
		if dir != "" {
			fmt.Fprintf(l.out, "[%s] $ %s (%s)\n", dir, line, d.Round(time.Millisecond))
			return
		}
		fmt.Fprintf(l.out, "$ %s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// IsVerbose returns true if verbose mode is enabled and not overridden by quiet.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
