// File: internal/config/config_test.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "cmsbehave", cfg.Logger.ServiceName)
	assert.Equal(t, DriverChromedp, cfg.Browser.Driver)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 1280, cfg.Browser.Viewport["width"])
	assert.Equal(t, []string{"features"}, cfg.Suite.Paths)
	assert.Equal(t, "pretty", cfg.Suite.Format)
	assert.Equal(t, "#Form_EditForm", cfg.CMS.EditFormSelector)
	assert.False(t, cfg.CMS.LegacyAlignment)
	assert.NoError(t, cfg.Validate())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Valid playwright", func(c *Config) { c.Browser.Driver = DriverPlaywright }, ""},
		{"Unknown driver", func(c *Config) { c.Browser.Driver = "selenium" }, "browser.driver must be"},
		{"Remote URL with playwright", func(c *Config) {
			c.Browser.Driver = DriverPlaywright
			c.Browser.RemoteURL = "ws://127.0.0.1:9222"
		}, "browser.remote_url is only supported"},
		{"Zero timeout", func(c *Config) { c.Browser.Timeout = 0 }, "browser.timeout must be a positive duration"},
		{"No feature paths", func(c *Config) { c.Suite.Paths = nil }, "suite.paths must name"},
		{"Blank edit form selector", func(c *Config) { c.CMS.EditFormSelector = "  " }, "cms.edit_form_selector is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// -- Loading Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("YAML overrides defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		yamlConfig := []byte(`
browser:
  driver: playwright
  timeout: 5s
  artifacts_dir: /tmp/cmsbehave
suite:
  base_url: https://cms.example.test
  tags: "@richtext"
cms:
  legacy_alignment: true
`)
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, DriverPlaywright, cfg.Browser.Driver)
		assert.Equal(t, 5*time.Second, cfg.Browser.Timeout)
		assert.Equal(t, "/tmp/cmsbehave", cfg.Browser.ArtifactsDir)
		assert.Equal(t, "https://cms.example.test", cfg.Suite.BaseURL)
		assert.Equal(t, "@richtext", cfg.Suite.Tags)
		assert.True(t, cfg.CMS.LegacyAlignment)
		// Untouched values keep their defaults.
		assert.Equal(t, "#Form_EditForm", cfg.CMS.EditFormSelector)
	})

	t.Run("Home directory is expanded", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(cfg.Browser.ArtifactsDir, "~"), "artifacts dir should be expanded, got %s", cfg.Browser.ArtifactsDir)
		assert.True(t, strings.HasSuffix(cfg.Browser.ArtifactsDir, filepath.Join(".cmsbehave", "artifacts")))
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("CMSBEHAVE_BROWSER_DRIVER", "playwright")
		t.Setenv("CMSBEHAVE_SUITE_BASE_URL", "http://admin.local")

		v := viper.New()
		SetDefaults(v)
		BindEnv(v)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, DriverPlaywright, cfg.Browser.Driver)
		assert.Equal(t, "http://admin.local", cfg.Suite.BaseURL)
	})

	t.Run("Invalid configuration is rejected", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("browser.driver", "lynx")

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CMSBEHAVE_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CMSBEHAVE_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("CMSBEHAVE_TEST_DOTENV"))
}
