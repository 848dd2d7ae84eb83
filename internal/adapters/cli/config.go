package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyposcaler-bot/prun-mcp/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage prun-mcp configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (PRUN_* prefix)
2. Config file (config.yaml)
3. Default values

Example:
  prun-mcp config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			fmt.Println("prun-mcp Configuration")
			fmt.Println("======================")

			fmt.Println("FIO API:")
			fmt.Printf("  Base URL:         %s\n", cfg.FIO.BaseURL)
			fmt.Printf("  Timeout:          %s\n", cfg.FIO.Timeout)
			fmt.Printf("  Max Retries:      %d\n", cfg.FIO.Retry.MaxAttempts)
			fmt.Printf("  Backoff Base:     %s\n", cfg.FIO.Retry.BackoffBase)

			fmt.Println("\nCache:")
			fmt.Printf("  Directory:        %s\n", cfg.Cache.Dir)
			fmt.Printf("  TTL:              %s\n", cfg.Cache.TTL)

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			if cfg.Database.Type == "sqlite" {
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			} else if cfg.Database.URL != "" {
				fmt.Printf("  URL:              (set)\n")
			} else {
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
				fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
			}

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)
			if cfg.Logging.Output == "file" {
				fmt.Printf("  File:             %s\n", cfg.Logging.FilePath)
			}

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Printf("  Endpoint:         http://%s:%d%s\n",
					cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}

			return nil
		},
	}
}
