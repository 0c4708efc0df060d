package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/charlm/pkg/corpus"
	"github.com/spf13/cobra"
)

// CLI encapsulates the command-line interface with its dependencies.
type CLI struct {
	version    string
	configPath string
	verbose    bool
	config     *Config
	logger     *slog.Logger
	rootCmd    *cobra.Command
}

// NewCLI creates a new CLI instance with the given version string.
func NewCLI(version string) *CLI {
	c := &CLI{version: version}
	c.setupCommands()
	return c
}

// setupCommands initializes all CLI commands and their configurations.
func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:           "charlm",
		Short:         "Character-level language model trainer and text generator",
		Version:       c.version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initApp(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	c.rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "./charlm.json", "Path to the JSON config file")
	c.rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose/debug output")

	c.rootCmd.AddCommand(c.newGenerateCommand())
	c.rootCmd.AddCommand(c.newTableCommand())
	c.rootCmd.AddCommand(c.newStatsCommand())
	c.rootCmd.AddCommand(c.newCorpusCommand())
}

// Run executes the CLI and returns any error.
func (c *CLI) Run() error {
	return c.rootCmd.Execute()
}

// initApp loads the config and sets up logging on the command's error stream.
func (c *CLI) initApp(cmd *cobra.Command) error {
	config, err := LoadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	c.config = config

	level := parseLogLevel(config.LogLevel)
	if c.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	c.logger.Debug("Configuration loaded", "path", c.configPath)
	return nil
}

// openStore opens the corpus database named in the config, creating its
// directory and schema if needed. The returned function releases both.
func (c *CLI) openStore() (*corpus.Store, func(), error) {
	path := c.config.CorpusDatabasePath
	dir := filepath.Dir(strings.SplitN(path, "?", 2)[0])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create corpus database directory: %w", err)
	}

	db, err := initDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup corpus schema: %w", err)
	}

	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create corpus store: %w", err)
	}
	store.SetLogger(c.logger)

	return store, func() {
		store.Close()
		closeDB(c.logger, db)
	}, nil
}

func closeDB(logger *slog.Logger, db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}
