package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultConfigurationsAreValid(t *testing.T) {
	for _, env := range []string{"production", "development", "test", "unknown"} {
		t.Run(env, func(t *testing.T) {
			config := ConfigForEnvironment(env)
			require.NoError(t, config.Validate())
		})
	}
}

func TestConfigForEnvironment(t *testing.T) {
	assert.True(t, ConfigForEnvironment("development").IsDevelopment())
	assert.True(t, ConfigForEnvironment("test").IsTest())
	assert.True(t, ConfigForEnvironment("production").IsProduction())
	assert.True(t, ConfigForEnvironment("").IsProduction())

	dev := ConfigForEnvironment("development")
	assert.Equal(t, "debug", dev.Logging.Level)
	assert.Equal(t, "console", dev.Logging.Format)

	prod := DefaultConfig()
	assert.True(t, prod.Watcher.Enabled)
	assert.Equal(t, 500*time.Millisecond, prod.Watcher.QuietPeriod)
	assert.True(t, prod.Apps.CoalesceRequests)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		modifier func(*Config)
		errorMsg string
	}{
		{
			name:     "invalid environment",
			modifier: func(c *Config) { c.Environment = "staging" },
			errorMsg: "invalid environment",
		},
		{
			name:     "zero quiet period",
			modifier: func(c *Config) { c.Watcher.QuietPeriod = 0 },
			errorMsg: "quietPeriod must be positive",
		},
		{
			name:     "blank excluded process",
			modifier: func(c *Config) { c.Apps.ExcludedProcesses = []string{"ok.exe", "  "} },
			errorMsg: "blank names",
		},
		{
			name:     "invalid log level",
			modifier: func(c *Config) { c.Logging.Level = "trace" },
			errorMsg: "invalid log level",
		},
		{
			name:     "invalid log format",
			modifier: func(c *Config) { c.Logging.Format = "xml" },
			errorMsg: "invalid log format",
		},
		{
			name: "log file without size",
			modifier: func(c *Config) {
				c.Logging.File = "taskdeck.log"
				c.Logging.MaxSizeMB = 0
			},
			errorMsg: "maxSizeMB must be positive",
		},
		{
			name:     "negative backups",
			modifier: func(c *Config) { c.Logging.MaxBackups = -1 },
			errorMsg: "maxBackups cannot be negative",
		},
		{
			name:     "negative age",
			modifier: func(c *Config) { c.Logging.MaxAgeDays = -1 },
			errorMsg: "maxAgeDays cannot be negative",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			config := DefaultConfig()
			tt.modifier(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestConfig_LoadFromEnvironment(t *testing.T) {
	t.Setenv("TASKDECK_ENV", "development")
	t.Setenv("TASKDECK_WATCHER_ENABLED", "off")
	t.Setenv("TASKDECK_DEBOUNCE", "750ms")
	t.Setenv("TASKDECK_EXCLUDE_PROCESSES", "Widgets.exe, ,PhoneExperienceHost.exe")
	t.Setenv("TASKDECK_SKIP_TITLES", "Overlay")
	t.Setenv("TASKDECK_COALESCE_REQUESTS", "no")
	t.Setenv("TASKDECK_LOG_LEVEL", "WARN")
	t.Setenv("TASKDECK_LOG_FORMAT", "console")
	t.Setenv("TASKDECK_LOG_FILE", "logs/taskdeck.log")
	t.Setenv("TASKDECK_LOG_MAX_SIZE_MB", "25")
	t.Setenv("TASKDECK_LOG_MAX_BACKUPS", "5")
	t.Setenv("TASKDECK_LOG_MAX_AGE_DAYS", "7")
	t.Setenv("TASKDECK_LOG_COMPRESS", "false")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnvironment())

	assert.Equal(t, "development", config.Environment)
	assert.False(t, config.Watcher.Enabled)
	assert.Equal(t, 750*time.Millisecond, config.Watcher.QuietPeriod)
	assert.Equal(t, []string{"Widgets.exe", "PhoneExperienceHost.exe"}, config.Apps.ExcludedProcesses)
	assert.Equal(t, []string{"Overlay"}, config.Apps.SkippedTitles)
	assert.False(t, config.Apps.CoalesceRequests)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, "console", config.Logging.Format)
	assert.Equal(t, "logs/taskdeck.log", config.Logging.File)
	assert.Equal(t, 25, config.Logging.MaxSizeMB)
	assert.Equal(t, 5, config.Logging.MaxBackups)
	assert.Equal(t, 7, config.Logging.MaxAgeDays)
	assert.False(t, config.Logging.Compress)
	require.NoError(t, config.Validate())
}

func TestConfig_LoadFromEnvironment_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("TASKDECK_DEBOUNCE", "soon")
	t.Setenv("TASKDECK_WATCHER_ENABLED", "maybe")
	t.Setenv("TASKDECK_LOG_MAX_SIZE_MB", "-3")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnvironment())

	assert.Equal(t, DefaultQuietPeriod, config.Watcher.QuietPeriod)
	assert.True(t, config.Watcher.Enabled)
	assert.Equal(t, 10, config.Logging.MaxSizeMB)
}

func TestConfig_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskdeck.yaml")
	doc := `
watcher:
  quietPeriod: 1s
apps:
  excludedProcesses:
    - GameBar.exe
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(path))

	assert.Equal(t, time.Second, config.Watcher.QuietPeriod)
	assert.True(t, config.Watcher.Enabled, "keys absent from the file keep their value")
	assert.Equal(t, []string{"GameBar.exe"}, config.Apps.ExcludedProcesses)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
}

func TestConfig_LoadFromFile_Errors(t *testing.T) {
	config := DefaultConfig()

	err := config.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watcher: [not, a, map"), 0o644))

	err = config.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskdeck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o644))

	t.Setenv("TASKDECK_CONFIG", path)
	t.Setenv("TASKDECK_DEBOUNCE", "2s")

	config, err := Load("development")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, 2*time.Second, config.Watcher.QuietPeriod)
	assert.True(t, config.IsDevelopment())
}

func TestLoad_InvalidResult(t *testing.T) {
	t.Setenv("TASKDECK_CONFIG", "")
	t.Setenv("TASKDECK_LOG_LEVEL", "verbose")

	_, err := Load("production")
	require.Error(t, err)
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	original.Apps.ExcludedProcesses = []string{"a.exe"}

	clone := original.Clone()
	clone.Apps.ExcludedProcesses[0] = "b.exe"
	clone.Logging.Level = "debug"

	assert.Equal(t, "a.exe", original.Apps.ExcludedProcesses[0])
	assert.Equal(t, "info", original.Logging.Level)
}
