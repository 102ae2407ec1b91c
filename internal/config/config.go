package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultQuietPeriod is how long the watcher suppresses further
// notifications after emitting one
const DefaultQuietPeriod = 500 * time.Millisecond

// parseBoolEnv reads an environment variable and parses it as a boolean.
// Returns the parsed value and whether the variable was present and valid.
// Supports true/false, 1/0, yes/no, on/off, t/f, y/n (case-insensitive).
func parseBoolEnv(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}

	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, true
	}

	switch strings.ToLower(value) {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// parseListEnv splits a comma separated environment variable, dropping
// blank items.
func parseListEnv(key string) ([]string, bool) {
	value := os.Getenv(key)
	if value == "" {
		return nil, false
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, true
}

// Config holds all application configuration options
type Config struct {
	Environment string        `json:"environment" yaml:"environment"` // development, production, test
	Watcher     WatcherConfig `json:"watcher" yaml:"watcher"`
	Apps        AppsConfig    `json:"apps" yaml:"apps"`
	Logging     LoggingConfig `json:"logging" yaml:"logging"`
}

// WatcherConfig controls the window change watcher
type WatcherConfig struct {
	Enabled     bool          `json:"enabled" yaml:"enabled"`         // Start the watcher at application startup
	QuietPeriod time.Duration `json:"quietPeriod" yaml:"quietPeriod"` // Minimum spacing between two notifications
}

// AppsConfig controls running application listing
type AppsConfig struct {
	// Process names hidden in addition to the built-in shell surfaces
	ExcludedProcesses []string `json:"excludedProcesses" yaml:"excludedProcesses"`
	// Window titles hidden in addition to the built-in input-method surfaces
	SkippedTitles []string `json:"skippedTitles" yaml:"skippedTitles"`
	// Share one enumeration between callers that overlap in time
	CoalesceRequests bool `json:"coalesceRequests" yaml:"coalesceRequests"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level      string `json:"level" yaml:"level"`           // debug, info, warn, error
	Format     string `json:"format" yaml:"format"`         // json or console
	File       string `json:"file" yaml:"file"`             // Rotated log file, empty for stdout only
	MaxSizeMB  int    `json:"maxSizeMB" yaml:"maxSizeMB"`   // Size at which the log file rotates
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"` // Rotated files kept
	MaxAgeDays int    `json:"maxAgeDays" yaml:"maxAgeDays"` // Days rotated files are kept
	Compress   bool   `json:"compress" yaml:"compress"`     // Gzip rotated files
}

// DefaultConfig returns a configuration with production defaults
func DefaultConfig() *Config {
	return &Config{
		Environment: "production",
		Watcher: WatcherConfig{
			Enabled:     true,
			QuietPeriod: DefaultQuietPeriod,
		},
		Apps: AppsConfig{
			CoalesceRequests: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// DevelopmentConfig returns a configuration optimized for development
func DevelopmentConfig() *Config {
	config := DefaultConfig()
	config.Environment = "development"
	config.Logging.Level = "debug"
	config.Logging.Format = "console"
	config.Logging.Compress = false
	return config
}

// TestConfig returns a configuration optimized for testing
func TestConfig() *Config {
	config := DefaultConfig()
	config.Environment = "test"
	config.Watcher.Enabled = false
	config.Watcher.QuietPeriod = 50 * time.Millisecond
	config.Apps.CoalesceRequests = false
	config.Logging.Level = "error"
	config.Logging.Format = "console"
	config.Logging.File = ""
	return config
}

// ConfigForEnvironment returns a configuration optimized for the given environment
func ConfigForEnvironment(env string) *Config {
	switch env {
	case "development":
		return DevelopmentConfig()
	case "test":
		return TestConfig()
	default:
		return DefaultConfig()
	}
}

// Load builds the configuration for env, then applies the YAML file named by
// TASKDECK_CONFIG (if any) and finally the TASKDECK_* environment overrides.
func Load(env string) (*Config, error) {
	config := ConfigForEnvironment(env)

	if path := os.Getenv("TASKDECK_CONFIG"); path != "" {
		if err := config.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile overlays the YAML document at path onto the configuration.
// Keys absent from the document keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	if environment := os.Getenv("TASKDECK_ENV"); environment != "" {
		c.Environment = environment
	}

	// Watcher settings
	if enabled, present := parseBoolEnv("TASKDECK_WATCHER_ENABLED"); present {
		c.Watcher.Enabled = enabled
	}

	if quiet := os.Getenv("TASKDECK_DEBOUNCE"); quiet != "" {
		if val, err := time.ParseDuration(quiet); err == nil && val > 0 {
			c.Watcher.QuietPeriod = val
		}
	}

	// App listing settings
	if names, present := parseListEnv("TASKDECK_EXCLUDE_PROCESSES"); present {
		c.Apps.ExcludedProcesses = append(c.Apps.ExcludedProcesses, names...)
	}

	if titles, present := parseListEnv("TASKDECK_SKIP_TITLES"); present {
		c.Apps.SkippedTitles = append(c.Apps.SkippedTitles, titles...)
	}

	if coalesce, present := parseBoolEnv("TASKDECK_COALESCE_REQUESTS"); present {
		c.Apps.CoalesceRequests = coalesce
	}

	// Logging settings
	if level := os.Getenv("TASKDECK_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}

	if format := os.Getenv("TASKDECK_LOG_FORMAT"); format != "" {
		c.Logging.Format = strings.ToLower(format)
	}

	if file := os.Getenv("TASKDECK_LOG_FILE"); file != "" {
		c.Logging.File = file
	}

	if maxSize := os.Getenv("TASKDECK_LOG_MAX_SIZE_MB"); maxSize != "" {
		if val, err := strconv.Atoi(maxSize); err == nil && val > 0 {
			c.Logging.MaxSizeMB = val
		}
	}

	if maxBackups := os.Getenv("TASKDECK_LOG_MAX_BACKUPS"); maxBackups != "" {
		if val, err := strconv.Atoi(maxBackups); err == nil && val >= 0 {
			c.Logging.MaxBackups = val
		}
	}

	if maxAge := os.Getenv("TASKDECK_LOG_MAX_AGE_DAYS"); maxAge != "" {
		if val, err := strconv.Atoi(maxAge); err == nil && val >= 0 {
			c.Logging.MaxAgeDays = val
		}
	}

	if compress, present := parseBoolEnv("TASKDECK_LOG_COMPRESS"); present {
		c.Logging.Compress = compress
	}

	return nil
}

// Validate validates the configuration parameters
func (c *Config) Validate() error {
	validEnvironments := []string{"development", "test", "production"}
	if !slices.Contains(validEnvironments, c.Environment) {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.Watcher.QuietPeriod <= 0 {
		return fmt.Errorf("watcher quietPeriod must be positive, got %v", c.Watcher.QuietPeriod)
	}

	for _, name := range c.Apps.ExcludedProcesses {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("excludedProcesses cannot contain blank names")
		}
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Logging.File != "" && c.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("log maxSizeMB must be positive when a log file is set, got %d", c.Logging.MaxSizeMB)
	}

	if c.Logging.MaxBackups < 0 {
		return fmt.Errorf("log maxBackups cannot be negative, got %d", c.Logging.MaxBackups)
	}

	if c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("log maxAgeDays cannot be negative, got %d", c.Logging.MaxAgeDays)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.Apps.ExcludedProcesses = slices.Clone(c.Apps.ExcludedProcesses)
	clone.Apps.SkippedTitles = slices.Clone(c.Apps.SkippedTitles)
	return &clone
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest returns true if the environment is set to test
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
