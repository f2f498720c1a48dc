package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, k := range []string{
		"PTENAV_CONFIG", "PTENAV_DB", "PTENAV_LOG_FILE", "PTENAV_LOG_LEVEL", "PTENAV_ANNOTATOR",
		"PTENAV_DEFAULT_TYPE", "PTENAV_LLM_PROVIDER", "PTENAV_ANTHROPIC_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k) // godotenv treats an empty variable as set
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := load("", filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, AnnotatorBuiltin, cfg.Annotator)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "state", "ptenav", "ptenav.log"), cfg.Log.File)
	assert.Equal(t, "all", cfg.DefaultType)
	assert.Empty(t, cfg.DBPath)
}

func TestLoadLayering(t *testing.T) {
	dir := isolate(t)
	write(t, filepath.Join(dir, "config", "ptenav", "config.yaml"), `
db_path: /tmp/from-file.db
annotator: llm
default_type: dnd
log:
  level: debug
llm:
  provider: openai
  model: gpt-4.1-mini
  timeout: 12s
`)
	envFile := filepath.Join(dir, ".env")
	write(t, envFile, "PTENAV_LOG_LEVEL=warn\nPTENAV_DB=/tmp/from-dotenv.db\n")
	t.Setenv("PTENAV_DB", "/tmp/from-env.db")

	cfg, err := load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", cfg.DBPath, "process env beats .env")
	assert.Equal(t, "warn", cfg.Log.Level, ".env beats file")
	assert.Equal(t, AnnotatorLLM, cfg.Annotator)
	assert.Equal(t, "DND", cfg.DefaultType)

	llmCfg, ok := cfg.LLMProvider()
	require.True(t, ok)
	assert.Equal(t, "openai", llmCfg.Provider)
	assert.Equal(t, "gpt-4.1-mini", llmCfg.OpenAI.Model)
	assert.Equal(t, 12*time.Second, llmCfg.Timeout)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := isolate(t)

	_, err := load(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, ".env"))
	assert.Error(t, err, "an explicit config path must exist")

	path := filepath.Join(dir, "custom.yaml")
	write(t, path, "annotator: off\n")
	cfg, err := load(path, filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, AnnotatorOff, cfg.Annotator)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"annotator", "annotator: spacy\n"},
		{"level", "log:\n  level: chatty\n"},
		{"type", "default_type: essay\n"},
		{"provider", "llm:\n  provider: pigeon\n"},
		{"syntax", "annotator: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "bad.yaml")
			write(t, path, tt.yaml)
			_, err := load(path, filepath.Join(dir, ".env"))
			assert.Error(t, err)
		})
	}
}

func TestLLMProviderPrefersEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "a-key")

	cfg := Default()
	cfg.LLM.Provider = "gemini"
	llmCfg, ok := cfg.LLMProvider()
	require.True(t, ok)
	assert.Equal(t, "anthropic", llmCfg.Provider)

	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg.LLM.Provider = ""
	_, ok = cfg.LLMProvider()
	assert.False(t, ok)
}
