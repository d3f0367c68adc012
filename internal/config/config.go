// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Simulate SimulateConfig `mapstructure:"simulate" yaml:"simulate"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// SessionConfig seeds the typing persona and the transcript provenance.
type SessionConfig struct {
	// TargetWPM is the words-per-minute goal. Ignored when Preset is set.
	TargetWPM float64 `mapstructure:"target_wpm" yaml:"target_wpm"`

	// Preset picks a named speed band (casual, average, fast, pro,
	// godlike) instead of an explicit WPM.
	Preset string `mapstructure:"preset" yaml:"preset"`

	// Seed fixes the random stream. Zero draws a fresh seed per session.
	Seed int64 `mapstructure:"seed" yaml:"seed"`

	// Layout names the physical keyboard model.
	Layout string `mapstructure:"layout" yaml:"layout"`

	// LayoutFile points at an optional XML overlay that replaces parts of
	// the built-in layout.
	LayoutFile string `mapstructure:"layout_file" yaml:"layout_file"`
}

// BrowserConfig holds settings for the headless browser actuator.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxEventsPerSec   float64       `mapstructure:"max_events_per_sec" yaml:"max_events_per_sec"`
	DriftAmplitude    float64       `mapstructure:"drift_amplitude" yaml:"drift_amplitude"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// SimulateConfig controls Monte Carlo batches.
type SimulateConfig struct {
	// Runs is the number of sessions per batch.
	Runs int `mapstructure:"runs" yaml:"runs"`

	// Concurrency bounds parallel sessions. Zero means one per CPU.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// DatabaseConfig holds the optional PostgreSQL connection details. An empty
// URL disables transcript persistence entirely.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// SetDefaults establishes the baseline configuration on the given viper
// instance. Call before reading any config file so absent keys resolve to
// these values.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "ghostwriter")
	v.SetDefault("logger.log_file", "ghostwriter.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Session --
	v.SetDefault("session.target_wpm", 90.0)
	v.SetDefault("session.preset", "")
	v.SetDefault("session.seed", 0)
	v.SetDefault("session.layout", "qwerty")
	v.SetDefault("session.layout_file", "")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.max_events_per_sec", 120.0)
	v.SetDefault("browser.drift_amplitude", 6.0)
	v.SetDefault("browser.navigation_timeout", "60s")

	// -- Simulate --
	v.SetDefault("simulate.runs", 50)
	v.SetDefault("simulate.concurrency", 0)

	// -- Database --
	v.SetDefault("database.url", "")
}

// NewDefaultConfig returns a configuration with every setting at its
// default. The defaults are compiled in, so construction cannot fail.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("config: defaults failed to load: %v", err))
	}
	return cfg
}

// NewConfigFromViper unmarshals and validates the configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for sensitive data.
	_ = v.BindEnv("database.url", "GHOSTWRITER_DATABASE_URL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations no component could run with. Preset names
// and layout files are checked where they are resolved, not here.
func (c *Config) Validate() error {
	if c.Session.TargetWPM <= 0 {
		return fmt.Errorf("session.target_wpm must be positive")
	}
	if c.Session.Seed < 0 {
		return fmt.Errorf("session.seed must not be negative")
	}
	if c.Browser.MaxEventsPerSec <= 0 {
		return fmt.Errorf("browser.max_events_per_sec must be positive")
	}
	if c.Simulate.Runs <= 0 {
		return fmt.Errorf("simulate.runs must be a positive integer")
	}
	if c.Simulate.Concurrency < 0 {
		return fmt.Errorf("simulate.concurrency must not be negative")
	}
	return nil
}
