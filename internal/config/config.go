package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/cakeisdead/price-monitor/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Products ProductsConfig `mapstructure:"products"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Database DatabaseConfig `mapstructure:"database"`
	Report   ReportConfig   `mapstructure:"report"`
	Run      RunConfig      `mapstructure:"run"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ProductsConfig locates the tracked product list.
type ProductsConfig struct {
	Path string `mapstructure:"path"`
}

// BrowserConfig governs the automation session used per fetch.
type BrowserConfig struct {
	Headless      bool          `mapstructure:"headless"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ScreenshotDir string        `mapstructure:"screenshot_dir"`
}

// DatabaseConfig encapsulates the sqlite history file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ReportConfig bounds per-item history reconstruction.
type ReportConfig struct {
	WindowSize int `mapstructure:"window_size"`
}

// RunConfig tunes batch execution.
type RunConfig struct {
	// Every re-runs the batch on this interval; zero means one pass.
	Every time.Duration `mapstructure:"every"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pmon")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "pmon.log")

	v.SetDefault("products.path", "products.json")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout", "10s")
	v.SetDefault("browser.screenshot_dir", "screenshots")

	v.SetDefault("database.path", "data.db")

	v.SetDefault("report.window_size", 12)

	v.SetDefault("run.every", "0s")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Products.Path == "" {
		return fmt.Errorf("products.path is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be greater than zero")
	}
	if c.Report.WindowSize <= 0 {
		return fmt.Errorf("report.window_size must be greater than zero")
	}
	if c.Run.Every < 0 {
		return fmt.Errorf("run.every cannot be negative")
	}
	return nil
}

// ResolveWindow returns either the CLI override or config default.
func (c *Config) ResolveWindow(override int) int {
	if override > 0 {
		return override
	}
	return c.Report.WindowSize
}
