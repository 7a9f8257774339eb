// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every environment variable override (CMSBEHAVE_BROWSER_DRIVER, ...).
const EnvPrefix = "CMSBEHAVE"

// Supported browser drivers.
const (
	DriverChromedp   = "chromedp"
	DriverPlaywright = "playwright"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Suite   SuiteConfig   `mapstructure:"suite" yaml:"suite"`
	CMS     CMSConfig     `mapstructure:"cms" yaml:"cms"`
}

// LoggerConfig defines all the settings for the logger.
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

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the browser the steps drive.
type BrowserConfig struct {
	// Driver selects the automation backend: "chromedp" or "playwright".
	Driver   string   `mapstructure:"driver" yaml:"driver"`
	Headless bool     `mapstructure:"headless" yaml:"headless"`
	ExecPath string   `mapstructure:"exec_path" yaml:"exec_path"`
	// RemoteURL attaches to an already running Chrome (chromedp only).
	RemoteURL       string         `mapstructure:"remote_url" yaml:"remote_url"`
	IgnoreTLSErrors bool           `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	Args            []string       `mapstructure:"args" yaml:"args"`
	Viewport        map[string]int `mapstructure:"viewport" yaml:"viewport"`
	// Timeout bounds the browser round-trips of a single step.
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ArtifactsDir string        `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`
}

// SuiteConfig configures the godog run.
type SuiteConfig struct {
	Name    string   `mapstructure:"name" yaml:"name"`
	Paths   []string `mapstructure:"paths" yaml:"paths"`
	Tags    string   `mapstructure:"tags" yaml:"tags"`
	Format  string   `mapstructure:"format" yaml:"format"`
	Strict  bool     `mapstructure:"strict" yaml:"strict"`
	BaseURL string   `mapstructure:"base_url" yaml:"base_url"`
}

// CMSConfig captures the admin-UI specifics the steps depend on.
type CMSConfig struct {
	EditFormSelector string `mapstructure:"edit_form_selector" yaml:"edit_form_selector"`
	// LegacyAlignment keeps the old literal style-attribute comparison for alignment checks.
	LegacyAlignment bool `mapstructure:"legacy_alignment" yaml:"legacy_alignment"`
}

// NewDefaultConfig returns a configuration populated only with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "cmsbehave")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.driver", DriverChromedp)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.timeout", "30s")
	v.SetDefault("browser.viewport", map[string]int{"width": 1280, "height": 900})
	v.SetDefault("browser.artifacts_dir", "~/.cmsbehave/artifacts")

	// -- Suite --
	v.SetDefault("suite.name", "cms")
	v.SetDefault("suite.paths", []string{"features"})
	v.SetDefault("suite.format", "pretty")
	v.SetDefault("suite.strict", true)
	v.SetDefault("suite.base_url", "http://localhost:8080")

	// -- CMS --
	v.SetDefault("cms.edit_form_selector", "#Form_EditForm")
	v.SetDefault("cms.legacy_alignment", false)
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %q: %w", f, err)
		}
	}
	return nil
}

// BindEnv wires environment variable lookup into v using the CMSBEHAVE_ prefix.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Browser.ArtifactsDir != "" {
		dir, err := homedir.Expand(cfg.Browser.ArtifactsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to expand browser.artifacts_dir: %w", err)
		}
		cfg.Browser.ArtifactsDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	switch c.Browser.Driver {
	case DriverChromedp, DriverPlaywright:
	default:
		return fmt.Errorf("browser.driver must be %q or %q, got %q", DriverChromedp, DriverPlaywright, c.Browser.Driver)
	}
	if c.Browser.RemoteURL != "" && c.Browser.Driver != DriverChromedp {
		return fmt.Errorf("browser.remote_url is only supported by the %s driver", DriverChromedp)
	}
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be a positive duration")
	}
	if len(c.Suite.Paths) == 0 {
		return fmt.Errorf("suite.paths must name at least one feature file or directory")
	}
	if strings.TrimSpace(c.CMS.EditFormSelector) == "" {
		return fmt.Errorf("cms.edit_form_selector is required")
	}
	return nil
}
