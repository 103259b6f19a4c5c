package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"selfemploy/internal/logging"
	"selfemploy/internal/onboarding"
	"selfemploy/internal/taxyear"
)

// DirName is the per-workspace state directory.
const DirName = ".selfemploy"

// Config holds all selfemploy configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Onboarding wizard behaviour
	Onboarding OnboardingConfig `yaml:"onboarding"`

	// Profile and draft storage
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`
}

// OnboardingConfig configures the first-run wizard.
type OnboardingConfig struct {
	DefaultBusinessType string `yaml:"default_business_type"`
	TaxYearOptions      int    `yaml:"tax_year_options"` // years offered on the tax year step
	ResumeDrafts        bool   `yaml:"resume_drafts"`
}

// StorageConfig configures the SQLite database.
type StorageConfig struct {
	// DatabasePath is resolved against the state directory when relative.
	DatabasePath string `yaml:"database_path"`
	BusyTimeout  string `yaml:"busy_timeout"`
}

// LoggingConfig configures category logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, text
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "selfemploy",
		Version: "0.3.0",

		Onboarding: OnboardingConfig{
			DefaultBusinessType: string(onboarding.BusinessSoleTrader),
			TaxYearOptions:      4,
			ResumeDrafts:        true,
		},

		Storage: StorageConfig{
			DatabasePath: "selfemploy.db",
			BusyTimeout:  "5s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},

		UI: *DefaultUIConfig(),
	}
}

// Dir returns the state directory for workspace.
func Dir(workspace string) string {
	return filepath.Join(workspace, DirName)
}

// DefaultPath returns the config file location for workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(Dir(workspace), "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("SELFEMPLOY_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if level := os.Getenv("SELFEMPLOY_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if v := os.Getenv("SELFEMPLOY_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = debug
		}
	}
	if theme := os.Getenv("SELFEMPLOY_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := onboarding.ParseBusinessType(c.Onboarding.DefaultBusinessType); err != nil {
		return fmt.Errorf("onboarding.default_business_type: %w", err)
	}
	if c.Onboarding.TaxYearOptions < 1 || c.Onboarding.TaxYearOptions > 10 {
		return fmt.Errorf("onboarding.tax_year_options must be between 1 and 10, got %d", c.Onboarding.TaxYearOptions)
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is required")
	}
	if _, err := time.ParseDuration(c.Storage.BusyTimeout); err != nil {
		return fmt.Errorf("storage.busy_timeout: %w", err)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}
	return c.UI.validate()
}

// DatabasePath returns the absolute database location for workspace.
func (c *Config) DatabasePath(workspace string) string {
	if filepath.IsAbs(c.Storage.DatabasePath) {
		return c.Storage.DatabasePath
	}
	return filepath.Join(Dir(workspace), c.Storage.DatabasePath)
}

// GetBusyTimeout returns the SQLite busy timeout as a duration.
func (c *Config) GetBusyTimeout() time.Duration {
	d, err := time.ParseDuration(c.Storage.BusyTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// LoggingSettings converts the logging section for logging.Initialize.
func (c *Config) LoggingSettings() logging.Settings {
	return logging.Settings{
		DebugMode:  c.Logging.DebugMode,
		Level:      c.Logging.Level,
		JSONFormat: c.Logging.Format == "json",
		Categories: c.Logging.Categories,
	}
}

// OnboardingDefaults returns the wizard's pre-selections at now. An invalid
// configured business type falls back to sole trader; Validate reports it.
func (c *Config) OnboardingDefaults(now time.Time) onboarding.Defaults {
	d := onboarding.DefaultsAt(now)
	if b, err := onboarding.ParseBusinessType(c.Onboarding.DefaultBusinessType); err == nil {
		d.BusinessType = b
	}
	return d
}

// TaxYearOptions returns the selectable tax years at now.
func (c *Config) TaxYearOptions(now time.Time) []taxyear.TaxYear {
	return taxyear.Options(now, c.Onboarding.TaxYearOptions)
}
