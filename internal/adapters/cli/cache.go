package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/cache"
	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/fio"
	"github.com/hyposcaler-bot/prun-mcp/internal/infrastructure/config"
)

// NewCacheCommand creates the cache command with subcommands
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local FIO data caches",
		Long: `Manage the local FIO catalog caches (materials, buildings,
recipes, workforce). Caches live as JSON files under the configured
cache directory and refresh automatically once their TTL expires.

Examples:
  prun-mcp cache info
  prun-mcp cache refresh materials
  prun-mcp cache refresh all
  prun-mcp cache invalidate buildings`,
	}

	cmd.AddCommand(newCacheInfoCommand())
	cmd.AddCommand(newCacheRefreshCommand())
	cmd.AddCommand(newCacheInvalidateCommand())

	return cmd
}

// newCacheManager builds a cache manager from the loaded configuration.
func newCacheManager() (*cache.Manager, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	client := fio.NewClientWithConfig(cfg.FIO.BaseURL, cfg.FIO.Timeout,
		cfg.FIO.Retry.MaxAttempts, cfg.FIO.Retry.BackoffBase, nil)
	return cache.NewManager(client, cfg.Cache.Dir, cfg.Cache.TTL), nil
}

// newCacheInfoCommand creates the cache info subcommand
func newCacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache entry counts and freshness",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newCacheManager()
			if err != nil {
				return err
			}

			fmt.Println("FIO Data Caches")
			fmt.Println("===============")
			for _, info := range manager.Info() {
				state := "stale"
				if info.Valid {
					state = "valid"
				}
				fmt.Printf("  %-10s %6d entries  %-6s refreshed %s\n",
					info.Name, info.Count, state, info.Refreshed)
			}
			return nil
		},
	}
}

// newCacheRefreshCommand creates the cache refresh subcommand
func newCacheRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <type>",
		Short: "Force a re-download of one cache type, or 'all'",
		Long: fmt.Sprintf(`Force a re-download of a cache from FIO regardless of TTL.

Valid types: %s, all`, strings.Join(cache.Types, ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newCacheManager()
			if err != nil {
				return err
			}

			types := []string{strings.ToLower(args[0])}
			if types[0] == "all" {
				types = cache.Types
			}

			ctx := context.Background()
			for _, cacheType := range types {
				count, err := manager.Refresh(ctx, cacheType)
				if err != nil {
					return fmt.Errorf("failed to refresh %s cache: %w", cacheType, err)
				}
				fmt.Printf("✓ Refreshed %s cache (%d entries)\n", cacheType, count)
			}
			return nil
		},
	}
}

// newCacheInvalidateCommand creates the cache invalidate subcommand
func newCacheInvalidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <type>",
		Short: "Delete one cache type's local data, or 'all'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newCacheManager()
			if err != nil {
				return err
			}

			types := []string{strings.ToLower(args[0])}
			if types[0] == "all" {
				types = cache.Types
			}

			for _, cacheType := range types {
				if err := manager.Invalidate(cacheType); err != nil {
					return fmt.Errorf("failed to invalidate %s cache: %w", cacheType, err)
				}
				fmt.Printf("✓ Invalidated %s cache\n", cacheType)
			}
			return nil
		},
	}
}
