package main

import (
	"fmt"
	"os"

	"github.com/recera/skinview/cmd/skinview/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "skinview",
		Short: "skinview - a reactive Minecraft skin viewer component for Go/WASM",
		Long: `skinview drives a skinview3d viewer from Go. The playground server
serves a WASM client and pushes props from a YAML file to every connected
browser as the file changes.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newEditCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig changes into cwd when given and loads skinview.yaml from there
func loadConfig(cwd string) (*config.Config, error) {
	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return nil, fmt.Errorf("failed to change directory to %s: %w", cwd, err)
		}
	}
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.FileName, err)
	}
	return cfg, nil
}
