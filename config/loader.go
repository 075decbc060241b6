package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger   *slog.Logger
	userPath string
	envFile  string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		userPath: DefaultConfigPath(),
		envFile:  ".env",
	}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/taskbook/config.yaml)
// 3. Explicit config file (--config), if given
// 4. .env file in the working directory, then TASKBOOK_* environment variables
func (l *Loader) Load(explicitPath string) (*Config, error) {
	config := DefaultConfig()

	if l.userPath != "" {
		if userConfig, err := LoadFromFile(l.userPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", l.userPath))
			config.Merge(userConfig)
		} else if !os.IsNotExist(err) {
			l.logger.Warn("Failed to load user config", slog.String("path", l.userPath), slog.String("error", err.Error()))
		}
	}

	if explicitPath != "" {
		explicit, err := LoadFromFile(explicitPath)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", explicitPath))
		config.Merge(explicit)
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(l.envFile); err == nil {
		l.logger.Debug("Loaded environment file", slog.String("path", l.envFile))
	} else if !os.IsNotExist(err) {
		l.logger.Warn("Failed to load environment file", slog.String("path", l.envFile), slog.String("error", err.Error()))
	}
	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
