package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbook/commands"
	"taskbook/config"
	"taskbook/storage"
)

func testApp(t *testing.T) *app {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataFile = filepath.Join(dir, "tasks.gob")
	cfg.ExportDir = dir

	store := storage.NewTaskStore(cfg.DataFile, nil)
	commands.SetStore(store)
	commands.SetExportDir(dir)
	commands.SetLLMClient(nil)
	t.Cleanup(func() { _ = store.Close() })

	return &app{cfg: cfg, logger: slog.Default(), store: store}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel(""))
}

func TestHandleLine(t *testing.T) {
	a := testApp(t)

	quit, err := a.handleLine("   ")
	require.NoError(t, err)
	assert.False(t, quit)

	quit, err = a.handleLine("/add Water plants | | low")
	require.NoError(t, err)
	assert.False(t, quit)
	require.Equal(t, 1, a.store.Len())

	task, _ := a.store.Get(0)
	assert.Equal(t, storage.PriorityLow, task.Priority)

	_, err = a.handleLine("/nope")
	assert.Error(t, err)

	// Plain text is routed to the assistant, which is not configured here
	quit, err = a.handleLine("what is due today?")
	require.NoError(t, err)
	assert.False(t, quit)

	quit, err = a.handleLine("/quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestExecLinePersists(t *testing.T) {
	a := testApp(t)
	require.NoError(t, a.execLine("/add Call the bank"))

	reloaded := storage.NewTaskStore(a.store.Path(), nil)
	require.Equal(t, 1, reloaded.Len())
	task, _ := reloaded.Get(0)
	assert.Equal(t, "Call the bank", task.Description)
}

func TestIsChatCommand(t *testing.T) {
	assert.True(t, isChatCommand("/chat hello"))
	assert.True(t, isChatCommand("/CLEARCHAT"))
	assert.True(t, isChatCommand("/usage"))
	assert.False(t, isChatCommand("/list"))
}

func TestNewCompleter(t *testing.T) {
	c := newCompleter()
	names := make(map[string]bool)
	for _, child := range c.GetChildren() {
		names[string(child.GetName())] = true
	}
	assert.True(t, names["/add "])
	assert.True(t, names["/export "])
}

func TestRootCommand(t *testing.T) {
	cmd := rootCmd()
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["exec"])
	assert.True(t, names["version"])
	assert.NotNil(t, cmd.PersistentFlags().Lookup("data"))
}

func TestExecLineReportsCommandErrors(t *testing.T) {
	a := testApp(t)

	err := a.execLine("/add Renew passport | | | | 31/02/2026")
	assert.ErrorIs(t, err, errCommandFailed)
	assert.Equal(t, 0, a.store.Len())

	require.NoError(t, a.execLine("/add Renew passport"))

	err = a.execLine("/export csv " + filepath.Join(t.TempDir(), "missing", "x.csv"))
	assert.ErrorIs(t, err, errCommandFailed)

	assert.NoError(t, a.execLine("/list"))
}

func TestAssistantConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Assistant.Model = "gemini-2.5-pro"
	cfg.Assistant.SystemPrompt = "Reply in Portuguese."

	got := assistantConfig(cfg)
	assert.Equal(t, "gemini-2.5-pro", got.Model)
	assert.Equal(t, "Reply in Portuguese.", got.System)
	assert.Equal(t, cfg.Assistant.MaxTokens, got.MaxTokens)
	assert.Equal(t, cfg.Assistant.Temperature, got.Temperature)
}

func TestConfigCommandSave(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("TASKBOOK_DATA_FILE", "")
	t.Chdir(dir)

	opts := options{configPath: "", dataFile: filepath.Join(dir, "tasks.gob")}

	cmd := configCmd(&opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "data_file: "+opts.dataFile)

	// Without --config the user config file is written
	out.Reset()
	cmd = configCmd(&opts)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--save"})
	require.NoError(t, cmd.Execute())
	userPath := config.DefaultConfigPath()
	assert.Contains(t, out.String(), userPath)

	loaded, err := config.LoadFromFile(userPath)
	require.NoError(t, err)
	assert.Equal(t, opts.dataFile, loaded.DataFile)
}
