// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package main is the entry point for the Cratedigger server.
//
// Cratedigger is a self-hosted music collection manager for DJs who own
// their music twice: once on vinyl (tracked via a Discogs collection)
// and once digitally (tracked via a Rekordbox library export). Its core
// is a mixing recommendation engine that scores the owned collection
// against a source track using Camelot key compatibility, BPM
// proximity, label and artist affinity, and the DJ's own logged
// transitions.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml,
//     environment variables)
//  2. Logging: zerolog, level and format from configuration
//  3. Database: DuckDB store with schema bootstrap
//  4. Router: Chi HTTP API with both recommendation profiles
//  5. Supervisor: suture tree running the HTTP server and the key
//     enrichment worker
//
// # Configuration
//
// Environment variables override the config file; see config.yaml for
// the full surface. The main ones:
//
//	HTTP_PORT=8086
//	DUCKDB_PATH=/data/cratedigger.duckdb
//	DISCOGS_ENABLED=true DISCOGS_TOKEN=... DISCOGS_USERNAME=...
//	REKORDBOX_LIBRARY_PATH=/data/rekordbox.xml
//	LOG_LEVEL=info
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: in-flight requests
// drain within the configured shutdown timeout, then workers stop and
// the database closes.
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

	"github.com/fmorozzo/cratedigger/internal/api"
	"github.com/fmorozzo/cratedigger/internal/config"
	"github.com/fmorozzo/cratedigger/internal/database"
	"github.com/fmorozzo/cratedigger/internal/logging"
	"github.com/fmorozzo/cratedigger/internal/supervisor"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("discogs", cfg.Discogs.Enabled).
		Bool("rekordbox", cfg.Rekordbox.Enabled).
		Msg("Starting Cratedigger")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	router, err := api.NewRouter(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize router")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server added to supervisor tree")

	if cfg.Enrichment.Enabled {
		tree.AddWorkerService(supervisor.NewEnrichmentService(db, cfg.Enrichment))
		logging.Info().
			Dur("interval", cfg.Enrichment.Interval).
			Int("batch_size", cfg.Enrichment.BatchSize).
			Msg("Key enrichment worker added to supervisor tree")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor finishes.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Cratedigger stopped gracefully")
}
