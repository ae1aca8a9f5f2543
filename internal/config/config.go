package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Pomodoro PomodoroConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
	Timezone   string
}

// PomodoroConfig holds timer durations.
type PomodoroConfig struct {
	Work       time.Duration
	ShortBreak time.Duration `mapstructure:"short_break"`
	LongBreak  time.Duration `mapstructure:"long_break"`
	Test       time.Duration
}

// Load reads configuration from file and env. Env var overrides use prefix JASKTASK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "jasktask", "jasktask.db"))
	v.SetDefault("ui.date_format", "02/01")
	v.SetDefault("ui.timezone", "Australia/Melbourne")
	v.SetDefault("pomodoro.work", "25m")
	v.SetDefault("pomodoro.short_break", "5m")
	v.SetDefault("pomodoro.long_break", "10m")
	v.SetDefault("pomodoro.test", "5s")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("JASKTASK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "jasktask"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JASKTASK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("JASKTASK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "jasktask", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("pomodoro.work", cfg.Pomodoro.Work.String())
	v.Set("pomodoro.short_break", cfg.Pomodoro.ShortBreak.String())
	v.Set("pomodoro.long_break", cfg.Pomodoro.LongBreak.String())
	v.Set("pomodoro.test", cfg.Pomodoro.Test.String())

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
