// homesim - Smart-Home Control Simulator
//
// This is the main entry point for homesim: a simulated smart-home core
// exposing a device registry (lights, thermostats, smart locks) and a
// credential store over a local HTTP API. Devices and credentials persist
// to flat JSON snapshot files; device state changes are audited to SQLite.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homesim/internal/api"
	"homesim/internal/auth"
	"homesim/internal/device"
	"homesim/internal/infrastructure/config"
	"homesim/internal/infrastructure/database"
	"homesim/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting homesim", "version", version, "commit", commit)

	// Load configuration; a missing config file falls back to defaults
	// so a fresh checkout runs without setup.
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = config.Default()
		log.Info("no config file, using defaults", "path", configPath)
	} else {
		log.Info("configuration loaded", "path", configPath)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Open the credential store. A corrupt credential file degrades to an
	// empty store; warn rather than refusing to start.
	creds, err := auth.Open(cfg.Storage.UsersFile)
	if err != nil {
		log.Warn("credential file unreadable, starting with empty store", "error", err)
	}
	log.Info("credential store ready", "path", cfg.Storage.UsersFile, "users", creds.Count())

	// Build the device registry from the snapshot file. A broken snapshot
	// degrades to an empty registry, but distinctly from the empty case:
	// the error is surfaced here instead of silently masked.
	store := device.NewJSONStore(cfg.Storage.DevicesFile)
	registry := device.NewRegistry(store)
	registry.SetLogger(log.With("component", "registry"))

	if loadErr := registry.Load(ctx); loadErr != nil {
		var perr *device.PersistenceError
		if errors.As(loadErr, &perr) {
			log.Warn("device snapshot unreadable, starting with empty registry",
				"path", perr.Path, "error", perr.Err)
		} else {
			return fmt.Errorf("loading device registry: %w", loadErr)
		}
	}
	log.Info("device registry ready", "path", cfg.Storage.DevicesFile, "devices", registry.Count())

	// Open the history database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer func() {
		log.Info("closing history database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("preparing history database: %w", err)
	}
	history := device.NewSQLiteHistoryRepository(db.DB)
	log.Info("history database ready", "path", cfg.Database.Path)

	pruneHistory(ctx, log, history, cfg.Database.RetentionDays)
	recordStartupHistory(ctx, log, history, registry)

	// Start the API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		Logger:      log.With("component", "api"),
		Registry:    registry,
		Credentials: creds,
		History:     history,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// pruneHistory deletes history entries older than the configured retention.
// Best-effort: a failure is logged and startup continues.
func pruneHistory(ctx context.Context, log *logging.Logger, history *device.SQLiteHistoryRepository, retentionDays int) {
	if retentionDays <= 0 {
		return
	}

	retention := time.Duration(retentionDays) * 24 * time.Hour
	deleted, err := history.Prune(ctx, retention)
	if err != nil {
		log.Warn("history prune failed", "error", err)
		return
	}
	if deleted > 0 {
		log.Info("pruned old history entries", "deleted", deleted, "retention_days", retentionDays)
	}
}

// recordStartupHistory writes one history entry per loaded device so the
// trail shows the state the process started from. Best-effort.
func recordStartupHistory(ctx context.Context, log *logging.Logger, history device.HistoryRepository, registry *device.Registry) {
	for _, d := range registry.All() {
		if err := history.Record(ctx, d.ID(), d.StatusDetails(), device.HistorySourceStartup); err != nil {
			log.Warn("failed to record startup history", "id", d.ID(), "error", err)
		}
	}
}

// getConfigPath returns the configuration file path.
// Uses HOMESIM_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMESIM_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
