package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockPlatformError satisfies the PlatformError interface
type mockPlatformError struct {
	message   string
	code      string
	context   map[string]string
	timestamp time.Time
}

func (m *mockPlatformError) Error() string                 { return m.message }
func (m *mockPlatformError) GetCode() string               { return m.code }
func (m *mockPlatformError) GetContext() map[string]string { return m.context }
func (m *mockPlatformError) GetTimestamp() time.Time       { return m.timestamp }

func newObservedLogger(level zapcore.Level) (*DefaultLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return newWithCore(core), logs
}

func TestNewDefaultLogger(t *testing.T) {
	logger := NewDefaultLogger()
	require.NotNil(t, logger)

	_, ok := logger.(*DefaultLogger)
	assert.True(t, ok, "NewDefaultLogger() returned %T, expected *DefaultLogger", logger)
}

func TestNewLogger_Validation(t *testing.T) {
	_, err := NewLogger(Options{Level: "loud", Format: "json"})
	assert.Error(t, err)

	_, err = NewLogger(Options{Level: "info", Format: "xml"})
	assert.Error(t, err)

	logger, err := NewLogger(Options{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskdeck.log")

	logger, err := NewLogger(Options{
		Level:      "info",
		Format:     "json",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	})
	require.NoError(t, err)

	logger.Info("written to file", "pid", 42)
	logger.Debug("below level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"msg":"written to file"`)
	assert.Contains(t, content, `"pid":42`)
	assert.Contains(t, content, `"level":"INFO"`)
	assert.NotContains(t, content, "below level")
}

func TestDefaultLogger_LogLevels(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.DebugLevel)

	tests := []struct {
		name           string
		logFunc        func(string, ...interface{})
		message        string
		fields         []interface{}
		level          zapcore.Level
		expectedFields map[string]interface{}
	}{
		{
			name:           "Debug",
			logFunc:        logger.Debug,
			message:        "debug message",
			fields:         []interface{}{"key", "value"},
			level:          zapcore.DebugLevel,
			expectedFields: map[string]interface{}{"key": "value"},
		},
		{
			name:           "Info",
			logFunc:        logger.Info,
			message:        "info message",
			fields:         []interface{}{"count", 42},
			level:          zapcore.InfoLevel,
			expectedFields: map[string]interface{}{"count": int64(42)},
		},
		{
			name:           "Warn",
			logFunc:        logger.Warn,
			message:        "warn message",
			level:          zapcore.WarnLevel,
			expectedFields: map[string]interface{}{},
		},
		{
			name:           "Error",
			logFunc:        logger.Error,
			message:        "error message",
			fields:         []interface{}{"error", "test error"},
			level:          zapcore.ErrorLevel,
			expectedFields: map[string]interface{}{"error": "test error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.logFunc(tt.message, tt.fields...)

			entries := logs.TakeAll()
			require.Len(t, entries, 1)

			entry := entries[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.message, entry.Message)

			fields := entry.ContextMap()
			for key, expected := range tt.expectedFields {
				assert.Equal(t, expected, fields[key], "field %q", key)
			}
		})
	}
}

func TestDefaultLogger_LevelFiltering(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	assert.Equal(t, 1, logs.Len())
}

func TestNormalizeFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []interface{}
		want   []interface{}
	}{
		{"empty", nil, []interface{}{}},
		{"pairs", []interface{}{"a", 1, "b", 2}, []interface{}{"a", 1, "b", 2}},
		{"odd trailing value", []interface{}{"a", 1, "orphan"}, []interface{}{"a", 1, "field_1", "orphan"}},
		{"non-string key", []interface{}{7, "seven"}, []interface{}{"field_0", 7, "field_0_value", "seven"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeFields(tt.fields))
		})
	}
}

func TestDefaultLogger_With(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.DebugLevel)

	child := logger.With("component", "watcher")
	child.Info("hook installed")

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, "watcher", entries[0].ContextMap()["component"])
}

func TestWithComponent(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.DebugLevel)

	WithComponent(logger, "apps").Debug("listing")

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, "apps", entries[0].ContextMap()["component"])

	plain := testutils.NewRecordingLogger()
	assert.Same(t, plain, WithComponent(plain, "apps"))
}

func TestLogError_WithPlatformError(t *testing.T) {
	mockLog := testutils.NewRecordingLogger()

	platformErr := &mockPlatformError{
		message:   "hook registration failed",
		code:      "UNAVAILABLE",
		context:   map[string]string{"hook": "win_event"},
		timestamp: time.Now(),
	}

	LogError(mockLog, platformErr, "watcher.listen", map[string]interface{}{
		"attempt": 1,
	})

	calls := mockLog.Calls("ERROR")
	require.Len(t, calls, 1)
	assert.True(t, strings.Contains(calls[0].Msg, "Platform error: hook registration failed"), calls[0].Msg)

	fieldsMap := testutils.FieldsToMap(t, calls[0].Fields)
	expectedFields := map[string]interface{}{
		"operation":  "watcher.listen",
		"error_code": "UNAVAILABLE",
		"hook":       "win_event",
		"attempt":    1,
	}
	for key, expected := range expectedFields {
		assert.Equal(t, expected, fieldsMap[key], "field %q", key)
	}
}

func TestLogError_WithRegularError(t *testing.T) {
	mockLog := testutils.NewRecordingLogger()

	LogError(mockLog, errors.New("regular error"), "kill", map[string]interface{}{"pid": 7})

	calls := mockLog.Calls("ERROR")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Msg, "Unexpected error: regular error")

	fieldsMap := testutils.FieldsToMap(t, calls[0].Fields)
	assert.Equal(t, "kill", fieldsMap["operation"])
	assert.Equal(t, "*errors.errorString", fieldsMap["error_type"])
	assert.Equal(t, 7, fieldsMap["pid"])
}

func TestLogError_WithNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogError(nil, errors.New("test error"), "test_operation", nil)
	})
}

func TestLogOperation(t *testing.T) {
	mockLog := testutils.NewRecordingLogger()

	LogOperation(mockLog, "list_running_apps", 150*time.Millisecond, map[string]interface{}{
		"entries": 5,
	})

	calls := mockLog.Calls("DEBUG")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Msg, "Operation completed: list_running_apps")

	fieldsMap := testutils.FieldsToMap(t, calls[0].Fields)
	assert.Equal(t, int64(150), fieldsMap["duration_ms"])
	assert.Equal(t, 5, fieldsMap["entries"])
}

func TestWailsLoggerAdapter(t *testing.T) {
	mockLog := testutils.NewRecordingLogger()
	adapter := NewWailsLoggerAdapter(mockLog)

	adapter.Print("print")
	adapter.Trace("trace")
	adapter.Debug("debug")
	adapter.Info("info")
	adapter.Warning("warning")
	adapter.Error("error")
	adapter.Fatal("fatal")

	assert.Len(t, mockLog.Calls("DEBUG"), 2)
	assert.Len(t, mockLog.Calls("INFO"), 2)
	assert.Len(t, mockLog.Calls("WARN"), 1)
	assert.Len(t, mockLog.Calls("ERROR"), 2)

	for _, call := range mockLog.Calls("") {
		fields := testutils.FieldsToMap(t, call.Fields)
		assert.Equal(t, "wails", fields["component"])
	}

	assert.NotNil(t, NewWailsLoggerAdapter(nil))
}
