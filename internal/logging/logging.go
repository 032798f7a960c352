package logging

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKeyType string

const loggerKey = loggerKeyType("logger")

var rootLogger = zap.NewNop()

// Options configures the root logger built by Init.
type Options struct {
	// Dev enables the console encoder and debug level on stdout.
	Dev bool

	// Level is the minimum level for non-dev output ("debug", "info", "warn", "error").
	Level string

	// File is an optional path of an appended JSON log file.
	File string
}

// Init builds the root logger, tags it with a fresh session id and installs it as the
// fallback returned by From. The returned function flushes and closes the sinks.
func Init(opts Options) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	if opts.Dev {
		level = zapcore.DebugLevel
	}
	filter := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= level
	})

	var cores []zapcore.Core
	var closers []func()
	if opts.Dev {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), filter))
	} else {
		jsonEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.Lock(os.Stderr), filter))
	}

	if opts.File != "" {
		logfile, err := os.OpenFile(opts.File, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closers = append(closers, func() { _ = logfile.Close() })
		jsonEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.Lock(logfile), filter))
	}

	logger := zap.New(zapcore.NewTee(cores...)).With(zap.String("session", NewSessionID()))
	rootLogger = logger
	logger.With(zap.Bool("devmode", opts.Dev)).Info("Logging initialized")

	return logger, func() {
		_ = logger.Sync()
		for _, c := range closers {
			c()
		}
	}, nil
}

// NewSessionID returns a random identifier for one run of the program.
func NewSessionID() string {
	return uuid.New().String()
}

// From returns the logger of the current context, if no logger is available, returns the root logger
func From(ctx context.Context) *zap.Logger {
	l := ctx.Value(loggerKey)
	if l == nil {
		return rootLogger
	}
	return l.(*zap.Logger)
}

// SubFrom derives a named child of the context logger and stores it in a new context.
func SubFrom(ctx context.Context, name string) (*zap.Logger, context.Context) {
	logger := From(ctx).Named(name)
	return logger, Context(ctx, logger)
}

// Context stores logger in ctx. A nil logger stores the root logger.
func Context(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = rootLogger
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromWithFields derives a child of the context logger carrying fields.
func FromWithFields(ctx context.Context, fields ...zapcore.Field) (*zap.Logger, context.Context) {
	logger := From(ctx).With(fields...)
	ctx = Context(ctx, logger)
	return logger, ctx
}
