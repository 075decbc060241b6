// Package main provides the taskbook binary: an interactive shell for a
// persistent to-do list, with an optional Gemini-backed assistant.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskbook/commands"
	"taskbook/config"
	"taskbook/llm"
	"taskbook/storage"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "taskbook"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		// The command already printed its own error
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// options holds the global flags shared by every subcommand
type options struct {
	configPath string
	dataFile   string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   appName,
		Short: "A persistent to-do list for the terminal",
		Long: `Taskbook keeps a to-do list with notes, priorities, categories and due dates.

Run without arguments to start the interactive shell. Lines starting with /
are commands (type /help to list them); anything else is sent to the
assistant when GEMINI_API_KEY is set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.runShell()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.dataFile, "data", "", "Task snapshot file (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run a single shell command and exit",
		Example: `  taskbook exec /add Pay rent | | high | Home | 05/11/2026
  taskbook exec /list pending`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.execLine(strings.Join(args, " "))
		},
	})

	cmd.AddCommand(configCmd(&opts))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func configCmd(opts *options) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after defaults, config files, .env and
TASKBOOK_* environment variables are applied. With --save it is written to
the --config path, or to the user config file when --config is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(*opts)
			if err != nil {
				return err
			}

			if save {
				path := opts.configPath
				if path == "" {
					path = config.DefaultConfigPath()
				}
				if path == "" {
					return errors.New("cannot determine config path, use --config")
				}
				if err := cfg.SaveToFile(path); err != nil {
					return fmt.Errorf("save config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved config to %s\n", path)
				return nil
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the configuration to a file instead of printing it")
	return cmd
}

// app wires configuration, the task store and the assistant together
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *storage.TaskStore
	client llm.Client
}

// loadConfig resolves the effective configuration, with flags applied last
func loadConfig(opts options) (*config.Config, *slog.Logger, error) {
	// Bootstrap logger so config loading problems are visible
	logger := newLogger(opts.logLevel, "warn")

	cfg, err := config.NewLoader(logger).Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if opts.dataFile != "" {
		cfg.DataFile = opts.dataFile
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	return cfg, newLogger(opts.logLevel, cfg.LogLevel), nil
}

func newApp(ctx context.Context, opts options) (*app, error) {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	if err := cfg.EnsureDataDir(); err != nil {
		logger.Warn("Failed to create data directory", slog.String("path", cfg.DataFile), slog.String("error", err.Error()))
	}

	store := storage.NewTaskStore(cfg.DataFile, logger)
	commands.SetStore(store)
	commands.SetExportDir(cfg.ExportDir)

	a := &app{cfg: cfg, logger: logger, store: store}

	client, err := llm.NewGeminiClient(ctx, assistantConfig(cfg))
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		logger.Debug("Assistant disabled", slog.String("reason", err.Error()))
	case err != nil:
		logger.Warn("Failed to initialize assistant", slog.String("error", err.Error()))
	default:
		a.client = client
		commands.SetLLMClient(client)
	}

	logger.Debug("Taskbook ready",
		slog.String("data_file", store.Path()),
		slog.Int("tasks", store.Len()),
		slog.Bool("assistant", a.client != nil))

	return a, nil
}

func assistantConfig(cfg *config.Config) *llm.Config {
	return &llm.Config{
		Model:       cfg.Assistant.Model,
		MaxTokens:   cfg.Assistant.MaxTokens,
		Temperature: cfg.Assistant.Temperature,
		System:      cfg.Assistant.SystemPrompt,
	}
}

// Close releases the assistant client and the store
func (a *app) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	_ = a.store.Close()
}

// newLogger builds the stderr text logger. The flag wins over the config value.
func newLogger(flagLevel, configLevel string) *slog.Logger {
	name := configLevel
	if flagLevel != "" {
		name = flagLevel
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(name)}))
}

func parseLogLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
