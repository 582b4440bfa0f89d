// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz     QuizConfig     `toml:"quiz"`
	Provider ProviderConfig `toml:"provider"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
}

// QuizConfig maps play-related settings.
type QuizConfig struct {
	Questions  *int     `toml:"questions"`
	Topics     []string `toml:"topics"`
	TopicsFile *string  `toml:"topics-file"`
}

// ProviderConfig maps question generation settings.
type ProviderConfig struct {
	Backend     *string  `toml:"backend"`
	Model       *string  `toml:"model"`
	BaseURL     *string  `toml:"base-url"`
	APIKey      *string  `toml:"api-key"`
	Temperature *float64 `toml:"temperature"`
	MaxTokens   *int     `toml:"max-tokens"`
	Timeout     *int     `toml:"timeout"`
}

// StorageConfig maps leaderboard storage settings.
type StorageConfig struct {
	Backend       *string `toml:"backend"`
	Path          *string `toml:"path"`
	RedisAddr     *string `toml:"redis-addr"`
	RedisPassword *string `toml:"redis-password"`
	RedisDB       *int    `toml:"redis-db"`
	Encrypt       *bool   `toml:"encrypt"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	Path   *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
