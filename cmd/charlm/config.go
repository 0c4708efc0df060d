package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// Config holds the settings shared by every charlm command. Command-line
// flags override the values loaded from the config file.
type Config struct {
	LogLevel           string  `json:"log_level"`
	WindowLength       int     `json:"window_length"`
	Seed               *uint64 `json:"seed"` // nil means a different seed every run
	GenerateLength     int     `json:"generate_length"`
	CorpusDatabasePath string  `json:"corpus_database_path"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		WindowLength:       4,
		Seed:               nil,
		GenerateLength:     200,
		CorpusDatabasePath: "./data/charlm_corpus.db",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Warn instead of failing, the defaults are still usable.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.WindowLength <= 0 {
		return nil, fmt.Errorf("invalid config: window_length must be positive, got %d", config.WindowLength)
	}
	if config.GenerateLength < 0 {
		return nil, fmt.Errorf("invalid config: generate_length must not be negative, got %d", config.GenerateLength)
	}

	return config, nil
}

// parseLogLevel maps a config log level name to a slog.Level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
