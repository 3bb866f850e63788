/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the menu engineering HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (defaults -> YAML -> MENU_* env -> flags)
  3. Build the analyzer (schemas, options, cache)
  4. Connect the advisor, if configured
  5. Start the defaults refresher, if default files are configured
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  --config            YAML config file
  --port              HTTP server port (default: 8080)
  --default-sales     Sales export used when a request uploads none
  --default-costs     Cost export used when a request uploads none
  --advisor-url       Advisor endpoint (advice disabled when empty)
  --log-level         debug, info, warn, error
  Run with --help for the full list.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the defaults refresher
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Exit

EXAMPLES:
  # Serve uploads only
  ./server

  # Serve the nightly exports and refresh them every 10 minutes
  ./server --default-sales=data/vendas.csv --default-costs=data/custos.csv \
           --refresh-interval=10m

  # Same, configured through the environment
  MENU_DEFAULTS__SALES_FILE=data/vendas.csv MENU_SERVER__PORT=3000 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Configuration keys
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/warp/menu-engine/advisory"
	"github.com/warp/menu-engine/api"
	"github.com/warp/menu-engine/config"
)

func main() {
	// Flags
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	config.ServerFlags(flags)
	flags.Parse(os.Args[1:])
	cfgFile, _ := flags.GetString("config")

	cfg, err := config.Load(cfgFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stderr)
	if cfg.File != "" {
		logger.Info("configuration loaded", "file", cfg.File)
	}

	// Initialize analyzer
	analyzer, err := cfg.NewAnalyzer(logger)
	if err != nil {
		logger.Error("failed to build analyzer", "error", err)
		os.Exit(1)
	}

	// Advisor is optional
	var advisor advisory.Advisor
	httpAdvisor, err := advisory.NewHTTPAdvisor(advisory.HTTPConfig{
		URL:         cfg.Advisor.URL,
		APIKey:      cfg.Advisor.APIKey,
		Timeout:     cfg.Advisor.Timeout,
		MinInterval: cfg.Advisor.MinInterval,
	})
	switch {
	case err == nil:
		advisor = httpAdvisor
		logger.Info("advisor enabled", "url", cfg.Advisor.URL)
	case errors.Is(err, advisory.ErrNotConfigured):
		logger.Info("advisor disabled: no advisor.url configured")
	default:
		logger.Error("failed to create advisor", "error", err)
		os.Exit(1)
	}

	// Initialize handler
	handler := api.NewHandler(api.HandlerConfig{
		Analyzer: analyzer,
		Advisor:  advisor,
		Defaults: api.Defaults{
			SalesFile: cfg.Defaults.SalesFile,
			CostFile:  cfg.Defaults.CostFile,
		},
		ExcerptSize: cfg.Pipeline.ExcerptSize,
		Logger:      logger,
	})

	refresher := api.NewDefaultsRefresher(handler, cfg.Defaults.RefreshInterval)
	refresher.Start()

	// Create router
	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	// Create server. Advice requests wait on the advisor, so the write
	// timeout follows its timeout.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Advisor.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
