/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the rental engine server. Handles configuration,
  dependency injection, background tickers, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and the config file
  2. Initialize the SQLite store
  3. Load persisted state into the controller (stale weeks reconcile here)
  4. Start the fast/slow tickers
  5. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Config file path (default: config.yaml, optional)
  -db      Override the SQLite database path ( ":memory:" works )

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections (30s drain)
  2. Stop the tickers and wait for them
  3. Close the database
  4. Exit

SEE ALSO:
  - api/server.go: router configuration
  - app/state.go: the state controller
  - config/config.go: settings and defaults
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/infinityps/rental-engine/api"
	"github.com/infinityps/rental-engine/app"
	"github.com/infinityps/rental-engine/calendar"
	"github.com/infinityps/rental-engine/config"
	"github.com/infinityps/rental-engine/logger"
	"github.com/infinityps/rental-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	dbPath := flag.String("db", "", "override SQLite database path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	log := logger.New(cfg.App.Env)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error("invalid timezone", "timezone", cfg.App.Timezone, "err", err)
		os.Exit(1)
	}

	storage, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		log.Error("failed to open database", "path", cfg.Storage.Path, "err", err)
		os.Exit(1)
	}
	defer storage.Close()

	state, err := app.New(context.Background(), app.Options{
		Storage:    storage,
		Clock:      calendar.SystemClock{Location: loc},
		Logger:     log,
		Location:   loc,
		UnitCount:  cfg.Units.Count,
		HourlyRate: decimal.NewFromInt(cfg.Units.HourlyRate),
	})
	if err != nil {
		log.Error("failed to load state", "err", err)
		os.Exit(1)
	}

	ticker := app.NewTicker(state)
	ticker.Start()
	defer ticker.Stop()

	router := api.NewRouter(api.NewHandler(state))
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "err", err)
	}
	log.Info("server stopped")
}
