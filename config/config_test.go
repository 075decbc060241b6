package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLoader returns a loader that only looks inside dir
func testLoader(dir string) *Loader {
	l := NewLoader(nil)
	l.userPath = filepath.Join(dir, "user.yaml")
	l.envFile = filepath.Join(dir, ".env")
	return l
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	cfg := DefaultConfig()
	assert.Equal(t, "/xdg/data/taskbook/tasks.gob", cfg.DataFile)
	assert.Equal(t, "/xdg/data/taskbook/history", cfg.HistoryFile)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "gemini-2.5-flash", cfg.Assistant.Model)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	assert.Equal(t, "/xdg/config/taskbook/config.yaml", DefaultConfigPath())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing data file",
			modify:  func(c *Config) { c.DataFile = "" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "upper case log level",
			modify:  func(c *Config) { c.LogLevel = "DEBUG" },
			wantErr: false,
		},
		{
			name:    "temperature too high",
			modify:  func(c *Config) { c.Assistant.Temperature = 2.5 },
			wantErr: true,
		},
		{
			name:    "negative max tokens",
			modify:  func(c *Config) { c.Assistant.MaxTokens = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.DataFile = "/tmp/custom.gob"
	cfg.Assistant.Temperature = 0.3
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_file: [unclosed"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{
		ExportDir: "/exports",
		Assistant: AssistantConfig{Model: "gemini-2.5-pro", SystemPrompt: "Answer briefly."},
	})

	assert.Equal(t, "/exports", cfg.ExportDir)
	assert.Equal(t, "gemini-2.5-pro", cfg.Assistant.Model)
	assert.Equal(t, "Answer briefly.", cfg.Assistant.SystemPrompt)
	assert.Equal(t, "warn", cfg.LogLevel, "zero fields must not override")
	assert.Equal(t, float32(0.7), cfg.Assistant.Temperature)

	cfg.Merge(nil)
	assert.Equal(t, "/exports", cfg.ExportDir)
}

func TestLoaderPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKBOOK_LOG_LEVEL", "")
	t.Setenv("TASKBOOK_EXPORT_DIR", "")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.yaml"),
		[]byte("data_file: /user/tasks.gob\nlog_level: info\nexport_dir: /user/exports\n"), 0644))
	explicit := filepath.Join(dir, "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("log_level: error\n"), 0644))

	cfg, err := testLoader(dir).Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "/user/tasks.gob", cfg.DataFile)
	assert.Equal(t, "/user/exports", cfg.ExportDir)
	assert.Equal(t, "error", cfg.LogLevel)

	t.Setenv("TASKBOOK_LOG_LEVEL", "debug")
	cfg, err = testLoader(dir).Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "environment wins over files")
}

func TestLoaderReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKBOOK_DATA_FILE", "")
	// Registered so the variable set by godotenv is removed after the test
	t.Setenv("TASKBOOK_EXPORT_DIR", "")
	os.Unsetenv("TASKBOOK_EXPORT_DIR")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TASKBOOK_EXPORT_DIR=/from/dotenv\n"), 0644))

	cfg, err := testLoader(dir).Load("")
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv", cfg.ExportDir)
}

func TestLoaderMissingExplicitFile(t *testing.T) {
	dir := t.TempDir()
	_, err := testLoader(dir).Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataFile = filepath.Join(t.TempDir(), "a", "b", "tasks.gob")
	require.NoError(t, cfg.EnsureDataDir())

	info, err := os.Stat(filepath.Dir(cfg.DataFile))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
