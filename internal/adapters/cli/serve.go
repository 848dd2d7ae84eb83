package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/cache"
	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/fio"
	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/mcpserver"
	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/metrics"
	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/persistence"
	"github.com/hyposcaler-bot/prun-mcp/internal/application/common"
	appeconomy "github.com/hyposcaler-bot/prun-mcp/internal/application/economy"
	appmarket "github.com/hyposcaler-bot/prun-mcp/internal/application/market"
	appplanning "github.com/hyposcaler-bot/prun-mcp/internal/application/planning"
	"github.com/hyposcaler-bot/prun-mcp/internal/infrastructure/config"
	"github.com/hyposcaler-bot/prun-mcp/internal/infrastructure/database"
)

// newServeCommand creates the serve command, the main entrypoint: it wires
// the FIO client, caches, database, and services into the MCP server and
// talks the protocol over stdio.
func newServeCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Run the MCP server. The server communicates over stdin/stdout;
all logging goes to stderr (or a file) so the protocol stream stays clean.

Example:
  prun-mcp serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger, err := newLogger(&cfg.Logging)
			if err != nil {
				return err
			}

			if cfg.Metrics.Enabled {
				if err := enableMetrics(&cfg.Metrics, logger); err != nil {
					return err
				}
			}

			client := fio.NewClientWithConfig(cfg.FIO.BaseURL, cfg.FIO.Timeout,
				cfg.FIO.Retry.MaxAttempts, cfg.FIO.Retry.BackoffBase, nil)
			catalogs := cache.NewManager(client, cfg.Cache.Dir, cfg.Cache.TTL)

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			economySvc := appeconomy.NewService(catalogs, client, client)
			planningSvc := appplanning.NewService(persistence.NewBasePlanRepository(db), economySvc)
			marketSvc := appmarket.NewService(client)

			srv := mcpserver.NewServer(mcpserver.Deps{
				Economy:  economySvc,
				Planning: planningSvc,
				Market:   marketSvc,
				Catalogs: catalogs,
				Planets:  client,
				Logger:   logger,
				Version:  version,
			})
			return srv.Serve()
		},
	}

	return cmd
}

// newLogger builds the process logger from the logging configuration.
// stdout is never an option: the MCP transport owns it.
func newLogger(cfg *config.LoggingConfig) (common.Logger, error) {
	level := cfg.Level
	if verbose {
		level = "debug"
	}

	if cfg.Output == "file" && cfg.FilePath != "" {
		file, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
		}
		return common.NewWriterLogger(file, level), nil
	}
	return common.NewStderrLogger(level), nil
}

// enableMetrics initializes the Prometheus registry, registers the
// collectors, and exposes them over HTTP in the background.
func enableMetrics(cfg *config.MetricsConfig, logger common.Logger) error {
	metrics.InitRegistry()

	toolCollector := metrics.NewToolMetricsCollector()
	fioCollector := metrics.NewFIOMetricsCollector()
	cacheCollector := metrics.NewCacheMetricsCollector()
	for _, register := range []func() error{
		toolCollector.Register,
		fioCollector.Register,
		cacheCollector.Register,
	} {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	metrics.SetGlobalToolCollector(toolCollector)
	metrics.SetGlobalFIOCollector(fioCollector)
	metrics.SetGlobalCacheCollector(cacheCollector)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	go func() {
		logger.Log("info", "Metrics endpoint listening", map[string]interface{}{
			"addr": addr,
			"path": cfg.Path,
		})
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Log("error", "Metrics endpoint failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
	return nil
}
