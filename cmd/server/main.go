/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Fleetline payroll engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment / .env
  2. Initialize the logger
  3. Initialize SQLite store
  4. Create API handler with dependencies
  5. Start the period pregeneration scheduler
  6. Start server with graceful shutdown

CONFIGURATION (environment variables):
  PORT              HTTP server port (default: 8080)
  DB_PATH           SQLite database path (default: ./data/fleet.db)
                    Use ":memory:" for an in-memory database
  LOG_LEVEL         trace|debug|info|warn|error (default: info)
  ENVIRONMENT       development|staging|production (default: development)
  TIMEZONE          IANA zone for period boundaries (default: UTC)
  CRON_PREGEN_SPEC  schedule for period pregeneration (default: 0 2 * * *)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler
  4. Close database connection
  5. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Period pregeneration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetline/payroll-engine/api"
	"github.com/fleetline/payroll-engine/config"
	"github.com/fleetline/payroll-engine/logger"
	"github.com/fleetline/payroll-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store, cfg.Timezone)
	router := api.NewRouter(handler)

	// Start period pregeneration
	scheduler := api.NewPregenScheduler(store, cfg.CronPregenSpec, cfg.Timezone)
	if err := scheduler.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start scheduler")
	}
	defer scheduler.Stop()

	// Ensure upcoming periods exist before the first request
	scheduler.RunOnce(context.Background())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server stopped")
}
