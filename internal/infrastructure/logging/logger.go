package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logger used across the application.
// Fields are alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Options configures NewLogger
type Options struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	File       string // optional rotated log file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultLogger is a zap backed Logger
type DefaultLogger struct {
	sugar *zap.SugaredLogger
}

// NewDefaultLogger creates a JSON logger at info level writing to stdout
func NewDefaultLogger() Logger {
	logger, err := NewLogger(Options{Level: "info", Format: "json"})
	if err != nil {
		return newWithCore(zapcore.NewNopCore())
	}
	return logger
}

// NewLogger builds a logger from options. When a file is configured, output
// goes to both stdout and the rotated file.
func NewLogger(opts Options) (*DefaultLogger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var encoder zapcore.Encoder
	switch opts.Format {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	sink := zapcore.AddSync(os.Stdout)
	if opts.File != "" {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}))
	}

	return newWithCore(zapcore.NewCore(encoder, sink, level)), nil
}

func newWithCore(core zapcore.Core) *DefaultLogger {
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return &DefaultLogger{sugar: base.Sugar()}
}

// normalizeFields converts the variadic fields slice into zap key/value
// pairs. Non-string keys and a trailing odd value get index based keys.
func normalizeFields(fields []interface{}) []interface{} {
	result := make([]interface{}, 0, len(fields)+len(fields)%2)

	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			result = append(result, fmt.Sprintf("field_%d", i/2), fields[i])
			break
		}

		if key, ok := fields[i].(string); ok {
			result = append(result, key, fields[i+1])
		} else {
			result = append(result,
				fmt.Sprintf("field_%d", i/2), fields[i],
				fmt.Sprintf("field_%d_value", i/2), fields[i+1],
			)
		}
	}

	return result
}

func (l *DefaultLogger) Debug(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, normalizeFields(fields)...)
}

func (l *DefaultLogger) Info(msg string, fields ...interface{}) {
	l.sugar.Infow(msg, normalizeFields(fields)...)
}

func (l *DefaultLogger) Warn(msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, normalizeFields(fields)...)
}

func (l *DefaultLogger) Error(msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, normalizeFields(fields)...)
}

// With returns a logger that adds fields to every entry
func (l *DefaultLogger) With(fields ...interface{}) Logger {
	return &DefaultLogger{sugar: l.sugar.With(normalizeFields(fields)...)}
}

// WithComponent tags every entry written through logger with component.
// Loggers without child support are returned unchanged.
func WithComponent(logger Logger, component string) Logger {
	if parent, ok := logger.(interface{ With(...interface{}) Logger }); ok {
		return parent.With("component", component)
	}
	return logger
}

// Sync flushes buffered entries
func (l *DefaultLogger) Sync() error {
	return l.sugar.Sync()
}

// PlatformError is the subset of errors.PlatformError the logger needs
// (declared here to avoid an import cycle)
type PlatformError interface {
	Error() string
	GetCode() string
	GetContext() map[string]string
	GetTimestamp() time.Time
}

// LogError logs an error with its classification and the given context.
// Platform errors contribute their code, timestamp and context.
func LogError(logger Logger, err error, operation string, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	if platformErr, ok := err.(PlatformError); ok {
		fields := []interface{}{
			"operation", operation,
			"error_code", platformErr.GetCode(),
			"timestamp", platformErr.GetTimestamp(),
		}

		for k, v := range platformErr.GetContext() {
			fields = append(fields, k, v)
		}

		for k, v := range context {
			fields = append(fields, k, v)
		}

		logger.Error(fmt.Sprintf("Platform error: %s", err.Error()), fields...)
		return
	}

	fields := []interface{}{
		"operation", operation,
		"error_type", fmt.Sprintf("%T", err),
	}

	for k, v := range context {
		fields = append(fields, k, v)
	}

	logger.Error(fmt.Sprintf("Unexpected error: %s", err.Error()), fields...)
}

// LogOperation logs a completed operation and its duration
func LogOperation(logger Logger, operation string, duration time.Duration, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	fields := []interface{}{
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	}

	for k, v := range context {
		fields = append(fields, k, v)
	}

	logger.Debug(fmt.Sprintf("Operation completed: %s", operation), fields...)
}
