// Package main provides the bridge CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/logger"
	"github.com/akash1629/cross-domain/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	logLevel    string

	// appLog is configured before every command runs.
	appLog *logger.Logger
)

func main() {
	err := rootCmd.Execute()
	appLog.Sync()
	if err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Discover bridge concepts between knowledge domains",
	Long: `bridge finds concepts that connect two otherwise unrelated domains.

Core features:
  - TF-IDF vector space over concept descriptions
  - Novelty scoring from citation counts
  - Ranked bridge candidates between two domains
  - Connection paths through the similarity graph

Concepts and citations are stored in git-versionable JSONL with an ephemeral
SQLite database and vector space snapshot for queries.
All commands output JSON by default for agent integration.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log mode: quiet, dev or prod (env BRIDGE_LOG)")
	rootCmd.Version = Version
}

// setup loads .env and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	level := logLevel
	if level == "" {
		level = config.GetLogLevel()
	}
	l, err := logger.New(level)
	if err != nil {
		return err
	}
	appLog = l
	return nil
}

// getStartingDirectory returns the directory to start searching for a repository.
// Checks the global repo_path first, then the current working directory.
func getStartingDirectory() string {
	if root := config.GetRepoPath(); root != "" {
		return root
	}

	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	return cwd
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	repoRoot, err := config.FindRepository(getStartingDirectory())
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}
