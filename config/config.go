// Package config provides configuration loading for taskbook.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the directory name used under the XDG config and data dirs
	AppName = "taskbook"
	// SnapshotFile is the default task snapshot filename
	SnapshotFile = "tasks.gob"
	// HistoryFile is the default shell history filename
	HistoryFile = "history"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Config represents the complete taskbook configuration
type Config struct {
	// DataFile is the path of the task snapshot
	DataFile string `yaml:"data_file"`
	// ExportDir is where relative export paths are resolved
	ExportDir string `yaml:"export_dir"`
	// HistoryFile stores the interactive shell history (empty disables it)
	HistoryFile string `yaml:"history_file"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
	// Assistant configures the /chat command
	Assistant AssistantConfig `yaml:"assistant"`
}

// AssistantConfig configures the LLM assistant
type AssistantConfig struct {
	// Model is the Gemini model name (e.g., "gemini-2.5-flash")
	Model string `yaml:"model"`
	// Temperature controls randomness (0.0-2.0, default: 0.7)
	Temperature float32 `yaml:"temperature"`
	// MaxTokens caps each response
	MaxTokens int32 `yaml:"max_tokens"`
	// SystemPrompt is prepended to the built-in assistant instructions
	SystemPrompt string `yaml:"system_prompt,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		DataFile:    filepath.Join(dataDir, SnapshotFile),
		ExportDir:   ".",
		HistoryFile: filepath.Join(dataDir, HistoryFile),
		LogLevel:    "warn",
		Assistant: AssistantConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
			MaxTokens:   8192,
		},
	}
}

// DefaultDataDir returns the directory holding the snapshot and history.
// Uses XDG_DATA_HOME if set, otherwise $HOME/.local/share.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// DefaultConfigPath returns the user config file location.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, UserConfigFile)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, UserConfigFile)
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("data_file is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.Assistant.Temperature < 0 || c.Assistant.Temperature > 2 {
		return fmt.Errorf("assistant.temperature must be between 0.0 and 2.0")
	}
	if c.Assistant.MaxTokens < 0 {
		return fmt.Errorf("assistant.max_tokens must be positive")
	}
	return nil
}

// Merge overlays the non-zero fields of other onto c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DataFile != "" {
		c.DataFile = other.DataFile
	}
	if other.ExportDir != "" {
		c.ExportDir = other.ExportDir
	}
	if other.HistoryFile != "" {
		c.HistoryFile = other.HistoryFile
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Assistant.Model != "" {
		c.Assistant.Model = other.Assistant.Model
	}
	if other.Assistant.Temperature != 0 {
		c.Assistant.Temperature = other.Assistant.Temperature
	}
	if other.Assistant.MaxTokens != 0 {
		c.Assistant.MaxTokens = other.Assistant.MaxTokens
	}
	if other.Assistant.SystemPrompt != "" {
		c.Assistant.SystemPrompt = other.Assistant.SystemPrompt
	}
}

// ApplyEnv overrides settings from TASKBOOK_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TASKBOOK_DATA_FILE"); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv("TASKBOOK_EXPORT_DIR"); v != "" {
		c.ExportDir = v
	}
	if v := os.Getenv("TASKBOOK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TASKBOOK_MODEL"); v != "" {
		c.Assistant.Model = v
	}
}

// EnsureDataDir creates the directory holding the snapshot (mode 0700)
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(filepath.Dir(c.DataFile), 0700)
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &config, nil
}

// SaveToFile writes the configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
