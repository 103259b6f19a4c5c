package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfemploy/internal/onboarding"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sole_trader", cfg.Onboarding.DefaultBusinessType)
	assert.Equal(t, ThemeAuto, cfg.UI.Theme)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Storage, cfg.Storage)
}

func TestSaveAndLoad(t *testing.T) {
	workspace := t.TempDir()
	path := DefaultPath(workspace)

	cfg := DefaultConfig()
	cfg.Onboarding.DefaultBusinessType = "freelancer"
	cfg.Onboarding.TaxYearOptions = 2
	cfg.UI.Theme = ThemeDark
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "freelancer", loaded.Onboarding.DefaultBusinessType)
	assert.Equal(t, 2, loaded.Onboarding.TaxYearOptions)
	assert.Equal(t, ThemeDark, loaded.UI.Theme)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  debug_mode: true\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Onboarding.TaxYearOptions)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("onboarding: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("SELFEMPLOY_DB overrides database path", func(t *testing.T) {
		t.Setenv("SELFEMPLOY_DB", "/tmp/other.db")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/other.db", cfg.DatabasePath("/ignored"))
	})

	t.Run("SELFEMPLOY_DEBUG enables debug mode", func(t *testing.T) {
		t.Setenv("SELFEMPLOY_DEBUG", "true")
		t.Setenv("SELFEMPLOY_LOG_LEVEL", "debug")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		s := cfg.LoggingSettings()
		assert.True(t, s.DebugMode)
		assert.Equal(t, "debug", s.Level)
	})

	t.Run("unparseable SELFEMPLOY_DEBUG is ignored", func(t *testing.T) {
		t.Setenv("SELFEMPLOY_DEBUG", "maybe")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.False(t, cfg.Logging.DebugMode)
	})

	t.Run("SELFEMPLOY_THEME overrides theme", func(t *testing.T) {
		t.Setenv("SELFEMPLOY_THEME", "light")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, ThemeLight, cfg.UI.Theme)
	})
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown business type", func(c *Config) { c.Onboarding.DefaultBusinessType = "pirate" }},
		{"zero tax years", func(c *Config) { c.Onboarding.TaxYearOptions = 0 }},
		{"too many tax years", func(c *Config) { c.Onboarding.TaxYearOptions = 11 }},
		{"empty database path", func(c *Config) { c.Storage.DatabasePath = "" }},
		{"bad busy timeout", func(c *Config) { c.Storage.BusyTimeout = "soon" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"negative wrap", func(c *Config) { c.UI.WordWrap = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOnboardingDefaults(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	cfg.Onboarding.DefaultBusinessType = "Contractor"

	d := cfg.OnboardingDefaults(now)
	assert.Equal(t, onboarding.BusinessContractor, d.BusinessType)
	assert.Equal(t, "2025/26", d.TaxYear.String())

	years := cfg.TaxYearOptions(now)
	require.Len(t, years, 4)
	assert.Equal(t, d.TaxYear, years[0])
}

func TestDatabasePath_Relative(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/work", DirName, "selfemploy.db"), cfg.DatabasePath("/work"))
	assert.Equal(t, 5*time.Second, cfg.GetBusyTimeout())
}
