package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/conflictfewer/internal/instrumentation"
	"github.com/teemow/conflictfewer/internal/server"
	"github.com/teemow/conflictfewer/internal/tools/google_tools"
	"github.com/teemow/conflictfewer/internal/tools/schedule_tools"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		cfgFile        string
		calendars      []string
		workdayStart   int
		workdayEnd     int
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide conflict-aware
scheduling tools for AI assistants over stdio.

Configuration is read from ~/.conflictfewer.yaml (or --config), environment
variables with the CONFLICTFEWER_ prefix, and flags, in increasing precedence:

  authorized_calendars: [primary, work]
  workday_start_hour: 8
  workday_end_hour: 22
  metrics:
    enabled: true
    addr: ":9090"

Authentication:
  Tokens are stored per account under the user cache directory. When no token
  exists yet, the scheduling tools return the OAuth URL to visit; complete the
  flow with the google_save_auth_code tool.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}

			// Flags override the config file
			if cmd.Flags().Changed("calendars") {
				cfg.AuthorizedCalendars = calendars
			}
			if cmd.Flags().Changed("workday-start") {
				cfg.WorkdayStartHour = workdayStart
			}
			if cmd.Flags().Changed("workday-end") {
				cfg.WorkdayEndHour = workdayEnd
			}
			if cmd.Flags().Changed("metrics-enabled") {
				cfg.Metrics.Enabled = metricsEnabled
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}

			return runServe(cfg, debugMode)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.conflictfewer.yaml)")
	cmd.Flags().StringSliceVar(&calendars, "calendars", nil, "Calendars the engine may act on (comma-separated). Overrides authorized_calendars from the config file.")
	cmd.Flags().IntVar(&workdayStart, "workday-start", 0, "First hour of the slot suggestion window (default: 8)")
	cmd.Flags().IntVar(&workdayEnd, "workday-end", 0, "Last hour of the slot suggestion window (default: 22)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", false, "Enable the metrics server on a dedicated port. Can also use CONFLICTFEWER_METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use CONFLICTFEWER_METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg Config, debugMode bool) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdio transport owns stdout; all logging goes to stderr
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", "error", err)
		}
	}()

	// Create server context
	serverContext, err := server.NewServerContext(shutdownCtx, server.Options{
		AuthorizedCalendars: cfg.AuthorizedCalendars,
		WorkdayStartHour:    cfg.WorkdayStartHour,
		WorkdayEndHour:      cfg.WorkdayEndHour,
		Logger:              logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", "error", err)
		}
	}()

	// Not ready until all tools are registered
	healthChecker := server.NewHealthChecker(serverContext)
	healthChecker.SetReady(false)

	// Start metrics server if enabled. The stdio transport has no HTTP
	// surface, so health probes are served on the metrics port too.
	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.Metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
			Health:                  healthChecker,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", "error", err)
			}
		}()
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetInstrumentation(provider.Metrics(),
			instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("conflictfewer", version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}
	healthChecker.SetReady(true)

	logger.Info("starting MCP server on stdio",
		"version", version,
		"authorized_calendars", cfg.AuthorizedCalendars)

	return runStdioServer(mcpSrv)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools
// Shared between serve and generate-docs
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Google OAuth",
			register: func() error {
				return google_tools.RegisterGoogleTools(mcpSrv, ctx)
			},
		},
		{
			name: "Scheduling",
			register: func() error {
				return schedule_tools.RegisterScheduleTools(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}
