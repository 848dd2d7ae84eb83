package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prun-mcp",
		Short: "Prosperous Universe MCP server backed by FIO data",
		Long: `prun-mcp serves Prosperous Universe base planning tools over the
Model Context Protocol: material, building, recipe, and planet lookups,
construction cost / COGM / base I/O calculators, base plan storage, and
exchange market analysis. Game data comes from the community FIO API and
is cached locally.

Examples:
  prun-mcp serve
  prun-mcp cache info
  prun-mcp cache refresh materials
  prun-mcp cache invalidate recipes
  prun-mcp config show`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: config.yaml in ., ./configs, /etc/prun-mcp)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(newServeCommand(version))
	rootCmd.AddCommand(NewCacheCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version))

	return rootCmd
}

// Execute runs the root command
func Execute(version string) {
	rootCmd := NewRootCommand(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
