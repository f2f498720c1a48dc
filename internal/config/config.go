// Package config resolves ptenav's runtime configuration from defaults, an
// optional YAML file, a .env file and PTENAV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/ptenav/internal/llm"
	"github.com/abhisek/ptenav/internal/navigation"
)

// Annotator modes.
const (
	AnnotatorBuiltin = "builtin"
	AnnotatorLLM     = "llm"
	AnnotatorOff     = "off"
)

// Config holds every tunable outside the learner-facing settings.
type Config struct {
	// DBPath overrides the database location. Empty means the store default.
	DBPath string `yaml:"db_path"`

	Log LogConfig `yaml:"log"`

	// Annotator selects the POS tagger: builtin, llm or off.
	Annotator string `yaml:"annotator" validate:"oneof=builtin llm off"`

	// DefaultType is the initial exercise type filter.
	DefaultType string `yaml:"default_type"`

	LLM LLMConfig `yaml:"llm"`
}

// LogConfig holds log output settings.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// LLMConfig holds LLM provider settings. API keys come from the
// environment only.
type LLMConfig struct {
	Provider string        `yaml:"provider" validate:"omitempty,oneof=anthropic openai gemini mock"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			File:  defaultLogFile(),
			Level: "info",
		},
		Annotator:   AnnotatorBuiltin,
		DefaultType: navigation.TypeAll,
	}
}

// Load builds the configuration. path is the --config flag value; when it
// is empty PTENAV_CONFIG and then the XDG location are tried, and a missing
// file there is not an error.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("PTENAV_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.readFile(path, explicit); err != nil {
		return nil, err
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DBPath = getEnv("PTENAV_DB", c.DBPath)
	c.Log.File = getEnv("PTENAV_LOG_FILE", c.Log.File)
	c.Log.Level = strings.ToLower(getEnv("PTENAV_LOG_LEVEL", c.Log.Level))
	c.Annotator = strings.ToLower(getEnv("PTENAV_ANNOTATOR", c.Annotator))
	c.DefaultType = getEnv("PTENAV_DEFAULT_TYPE", c.DefaultType)
}

// Validate checks enum fields and normalizes the default type filter.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	t, err := navigation.ParseType(c.DefaultType)
	if err != nil {
		return fmt.Errorf("invalid config: default_type: %w", err)
	}
	c.DefaultType = t
	return nil
}

// LLMProvider resolves the LLM provider configuration. Environment
// variables take precedence over the file. ok is false when no provider is
// configured anywhere.
func (c *Config) LLMProvider() (llm.Config, bool) {
	if cfg, ok := llm.ResolveConfig(); ok {
		return cfg, true
	}
	if c.LLM.Provider == "" {
		return llm.Config{}, false
	}
	cfg := llm.ConfigFromEnv()
	cfg.Provider = c.LLM.Provider
	if c.LLM.Model != "" {
		switch c.LLM.Provider {
		case "anthropic":
			cfg.Anthropic.Model = c.LLM.Model
		case "openai":
			cfg.OpenAI.Model = c.LLM.Model
		case "gemini":
			cfg.Gemini.Model = c.LLM.Model
		}
	}
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	return cfg, true
}

// DefaultPath is $XDG_CONFIG_HOME/ptenav/config.yaml, else
// ~/.config/ptenav/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "ptenav", "config.yaml")
}

func defaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "ptenav", "ptenav.log")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
