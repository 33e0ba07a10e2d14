package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mkorchagin/funpay-steampoints/internal/bsp"
	"github.com/mkorchagin/funpay-steampoints/internal/funpay"
	"go.yaml.in/yaml/v4"
)

// config is the optional operational file: log level, collaborator base URLs
// and the journal database. Everything the bot strictly needs comes from the
// environment instead; an absent file just means defaults.
type config struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	Funpay   struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"funpay"`
	BSP struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"bsp"`
	Database *struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		PoolSize int    `yaml:"pool_size"`
		SSLMode  string `yaml:"ssl_mode"`
	} `yaml:"database"`
}

func defaultConfig() *config {
	cfg := &config{LogLevel: "info"}
	cfg.Funpay.BaseURL = funpay.DefaultBaseURL
	cfg.BSP.BaseURL = bsp.DefaultBaseURL
	return cfg
}

func readConfig(configPath string) (*config, error) {
	cfg := defaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	rawConfig, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("couldn't read file %s: %w", configPath, err)
	}

	if err = yaml.Unmarshal(rawConfig, cfg); err != nil {
		return nil, fmt.Errorf("couldn't parse config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("couldn't validate config: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}

	if cfg.Funpay.BaseURL == "" {
		return fmt.Errorf("funpay.base_url is required")
	}
	if cfg.BSP.BaseURL == "" {
		return fmt.Errorf("bsp.base_url is required")
	}

	if db := cfg.Database; db != nil {
		if db.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if db.Port <= 0 || db.Port > 65535 {
			return fmt.Errorf("database.port must be between 1 and 65535")
		}
		if db.User == "" {
			return fmt.Errorf("database.user is required")
		}
		if db.Password == "" {
			return fmt.Errorf("database.password is required")
		}
		if db.Database == "" {
			return fmt.Errorf("database.database is required")
		}
		if db.PoolSize <= 0 {
			return fmt.Errorf("database.pool_size must be greater than 0")
		}
		if db.SSLMode == "" {
			return fmt.Errorf("database.ssl_mode is required")
		}
	}

	return nil
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
