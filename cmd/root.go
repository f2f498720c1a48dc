package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/ptenav/internal/config"
	"github.com/abhisek/ptenav/internal/logger"
	"github.com/abhisek/ptenav/internal/store"
	"github.com/abhisek/ptenav/internal/workspace"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ptenav",
	Short: "PTE reading & writing practice",
	Long:  "ptenav is terminal practice for PTE Academic fill-in-the-blanks: passages, confidence ratings and detailed feedback.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PTENAV_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides PTENAV_CONFIG env var)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (PTENAV_DB or the config file), then the default
// XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// newLogger builds the file logger. Commands fall back to a no-op logger
// when the log file cannot be opened.
func newLogger(cmd *cobra.Command, cfg *config.Config) *logger.Logger {
	if cfg.Log.File != "" {
		if err := store.EnsureDir(cfg.Log.File); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
			return logger.Nop()
		}
	}
	log, err := logger.New(logger.Config{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
		return logger.Nop()
	}
	return log
}

// env is everything a command needs to work on the learner's data.
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *store.Store
	ws      *workspace.Workspace
	notices []workspace.Notice
}

// openEnv loads the config, opens the store and loads the workspace.
// Load notices are printed as warnings.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log := newLogger(cmd, cfg)

	ws, notices := workspace.Load(ctxOf(cmd), st, workspace.Options{Log: log})
	for _, n := range notices {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", n)
	}
	return &env{cfg: cfg, log: log, store: st, ws: ws, notices: notices}, nil
}

func (e *env) Close() {
	e.log.Sync()
	e.store.Close()
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// confirm asks a yes/no question on the command's input. Anything but
// y or yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
