// Package logger configures the process-wide structured logger: a zap JSON
// core exposed as a logr.Logger, plus helpers to carry it through contexts.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/cmdpal/pkg/settings"
)

type loggerContextKey struct{}

const (
	CommandKey   = "command"
	CommitKey    = "commit"
	VersionKey   = "version"
	GoVersionKey = "go_version"
	TimeStampKey = "timestamp"
	MessageKey   = "message"
)

// Options selects the level and sink of the global logger.
type Options struct {
	// Level is a zap level: -1 debug, 0 info, 2 error.
	Level int8
	// Path, when set, appends log lines to this file instead of Writer.
	Path string
	// Writer receives log lines when Path is empty. Defaults to stderr.
	Writer io.Writer
}

var (
	mu sync.Mutex

	globalZapLogger  *zap.Logger
	globalLogrLogger *logr.Logger
	logFile          *os.File

	defaultNoopLogger = logr.Discard()
)

// Setup builds the global logger. Only the first call has an effect; later
// calls return the logger built by the first.
func Setup(opts Options) (*logr.Logger, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalLogrLogger != nil {
		return globalLogrLogger, nil
	}

	var sink zapcore.WriteSyncer
	switch {
	case opts.Path != "":
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return &defaultNoopLogger, fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		sink = zapcore.Lock(f)
	case opts.Writer != nil:
		sink = zapcore.AddSync(opts.Writer)
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	goVersion := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		sink,
		zap.NewAtomicLevelAt(zapcore.Level(opts.Level)),
	).With([]zapcore.Field{
		zap.String(CommitKey, settings.VersionInformation.Commit),
		zap.String(VersionKey, settings.VersionInformation.BuildVersion),
		zap.String(GoVersionKey, goVersion),
	})

	globalZapLogger = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.WithFatalHook(zapcore.WriteThenPanic),
	)
	gl := zapr.NewLogger(globalZapLogger)
	globalLogrLogger = &gl
	return globalLogrLogger, nil
}

// Get returns the global logger at the given level, building it on first use.
func Get(logLevel int8) *logr.Logger {
	lgr, err := Setup(Options{Level: logLevel})
	if err != nil {
		return &defaultNoopLogger
	}
	return lgr
}

// WithLogger returns ctx carrying log. A context already carrying the same
// logger is returned unchanged.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger carried by ctx, else the global logger, else
// a no-op logger.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	}
	return GetGlobalLogger()
}

// GetGlobalLogger returns the global logger, or a no-op logger before Setup.
func GetGlobalLogger() *logr.Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return &defaultNoopLogger
}

// WithValues returns a copy of lgr with extra key/value pairs.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	nlgr := lgr.WithValues(keysAndValues...)
	return &nlgr
}

// Sync flushes buffered entries and closes the log file, if any. Call it
// before exit.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if globalZapLogger != nil {
		if err := globalZapLogger.Sync(); err != nil && !isIgnorableSyncError(err) {
			fmt.Fprintf(os.Stderr, "WARNING: failed to sync zap logger: %v\n", err)
		}
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// isIgnorableSyncError reports the errors Sync returns on pipes and TTYs.
// Windows consoles report ERROR_INVALID_HANDLE wrapped in *os.PathError, which
// only matches by text.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// reset drops the global logger so tests can build another.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	globalZapLogger = nil
	globalLogrLogger = nil
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
