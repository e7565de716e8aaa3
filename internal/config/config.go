package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/go-tangra/go-tangra-displays/internal/logger"
	"github.com/go-tangra/go-tangra-displays/internal/render"
)

// Config holds the display recorder configuration.
type Config struct {
	DatabasePath    string        `mapstructure:"database"`
	Interval        time.Duration `mapstructure:"interval"`
	RetentionDays   int           `mapstructure:"retention_days"`
	PurgeInterval   time.Duration `mapstructure:"purge_interval"`
	IncludePhysical bool          `mapstructure:"include_physical"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	OutputFormat    string        `mapstructure:"output_format"`
}

// Load reads configuration from file and environment. A missing config file
// is not an error; a malformed one is.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("displays")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath(systemConfigDir())
	}

	v.SetDefault("database", "displays.db")
	v.SetDefault("interval", "15m")
	v.SetDefault("retention_days", 30)
	v.SetDefault("purge_interval", "24h")
	v.SetDefault("include_physical", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("output_format", render.FormatTable)

	v.SetEnvPrefix("DISPLAYS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database: must not be empty"))
	}
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval: must be positive, got %s", c.Interval))
	}
	if c.RetentionDays < 0 {
		errs = append(errs, fmt.Errorf("retention_days: must not be negative, got %d", c.RetentionDays))
	}
	if c.RetentionDays > 0 && c.PurgeInterval <= 0 {
		errs = append(errs, fmt.Errorf("purge_interval: must be positive when retention is enabled, got %s", c.PurgeInterval))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("log_format: %w", err))
	}
	if !render.Valid(c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output_format: unknown format %q", c.OutputFormat))
	}
	return errors.Join(errs...)
}

func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		base := os.Getenv("ProgramData")
		if base == "" {
			base = `C:\ProgramData`
		}
		return filepath.Join(base, "go-tangra-displays")
	}
	return "/etc/go-tangra-displays"
}
