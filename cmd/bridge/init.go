package main

import (
	"fmt"
	"os"

	"github.com/akash1629/cross-domain/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new crossdomain repository",
	Long: `Initialize a new crossdomain repository in the current directory.

Creates .crossdomain/ with a default config.yml, empty concepts.jsonl and
citations.jsonl, and the cache directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(cwd) {
		exitWithError(ExitConfigError, "repository already exists at %s", config.RepoPath(cwd))
	}

	if err := config.Init(cwd); err != nil {
		exitWithError(ExitError, "initializing repository: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized crossdomain repository in %s\n", config.RepoPath(cwd))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.RepoPath(cwd)})
	}
	return nil
}
