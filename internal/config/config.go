package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds tool settings. Accounts and script mappings live in the
// account configuration file, not here.
type Config struct {
	BufferSize  int           `mapstructure:"buffer_size"`
	IgnoreList  []string      `mapstructure:"ignore_list"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	HistoryDB   string        `mapstructure:"history_db"`
	StatusAddr  string        `mapstructure:"status_addr"`
}

var Default = Config{
	BufferSize:  100,
	IgnoreList:  []string{"node_modules", ".git", ".DS_Store", "*.tmp", "*.swp", "*~"},
	HTTPTimeout: 30 * time.Second,
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	return filepath.Join(home, ".phantomsync"), nil
}

func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	return LoadFrom(dir)
}

// LoadFrom reads settings.yaml from dir if it exists. PHANTOMSYNC_*
// environment variables override file values.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("buffer_size", Default.BufferSize)
	v.SetDefault("ignore_list", Default.IgnoreList)
	v.SetDefault("http_timeout", Default.HTTPTimeout)
	v.SetDefault("history_db", "")
	v.SetDefault("status_addr", "")

	v.SetEnvPrefix("PHANTOMSYNC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := errors.AsType[viper.ConfigFileNotFoundError](err); !ok {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = Default.BufferSize
	}

	return &cfg, nil
}
