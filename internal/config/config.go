// Package config loads the service configuration. This is deployment
// wiring only; the merchant-facing matching settings live in
// internal/settings and reload independently.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level service configuration.
type Config struct {
	ListenAddr   string    `mapstructure:"listen_addr"`
	SettingsPath string    `mapstructure:"settings_path"`
	RedisURL     string    `mapstructure:"redis_url"` // empty = in-memory store
	PixelID      string    `mapstructure:"pixel_id"`
	Transport    string    `mapstructure:"transport"`
	Publisher    Publisher `mapstructure:"publisher"`
}

// Publisher sizes the delivery queue.
type Publisher struct {
	Workers    int `mapstructure:"workers"`
	QueueDepth int `mapstructure:"queue_depth"`
}

// Load reads the config file at path, applying defaults and
// METABRIDGE_-prefixed environment overrides. An empty path runs on
// defaults alone.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("settings_path", "configs/aam.yaml")
	v.SetDefault("transport", "log")
	v.SetDefault("publisher.workers", 4)
	v.SetDefault("publisher.queue_depth", 1000)

	v.SetEnvPrefix("METABRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr cannot be empty")
	}
	if cfg.SettingsPath == "" {
		return fmt.Errorf("config: settings_path cannot be empty")
	}
	if cfg.Publisher.Workers <= 0 {
		return fmt.Errorf("config: publisher.workers must be positive, got %d", cfg.Publisher.Workers)
	}
	if cfg.Publisher.QueueDepth <= 0 {
		return fmt.Errorf("config: publisher.queue_depth must be positive, got %d", cfg.Publisher.QueueDepth)
	}
	return nil
}
