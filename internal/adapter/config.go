package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Cache    CacheConfig    `mapstructure:"cache"`
	Library  LibraryConfig  `mapstructure:"library"`
	Mock     MockConfig     `mapstructure:"mock"`
	Progress ProgressConfig `mapstructure:"progress"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CacheConfig holds cache storage configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // empty = memory-only
}

// LibraryConfig bounds the liked/recent lists
type LibraryConfig struct {
	MaxLiked  int `mapstructure:"max_liked"`
	MaxRecent int `mapstructure:"max_recent"`
}

// MockConfig tunes the simulated network layer
type MockConfig struct {
	MinLatencyMs         int     `mapstructure:"min_latency_ms"`
	MaxLatencyMs         int     `mapstructure:"max_latency_ms"`
	FailureRate          float64 `mapstructure:"failure_rate"`
	AudiobookFailureRate float64 `mapstructure:"audiobook_failure_rate"`
	Seed                 int64   `mapstructure:"seed"`
}

// ProgressConfig holds audiobook progress persistence configuration
type ProgressConfig struct {
	File          string `mapstructure:"file"`
	FlushInterval int    `mapstructure:"flush_interval_seconds"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Dir: filepath.Join(defaultDataPath(), "cache"),
		},
		Library: LibraryConfig{
			MaxLiked:  500,
			MaxRecent: 100,
		},
		Mock: MockConfig{
			MinLatencyMs:         300,
			MaxLatencyMs:         1500,
			FailureRate:          0.05,
			AudiobookFailureRate: 0.10,
		},
		Progress: ProgressConfig{
			File:          filepath.Join(defaultDataPath(), "progress.db"),
			FlushInterval: 30,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "aria.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "aria")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "aria")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "aria")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "aria")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("ARIA")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}
