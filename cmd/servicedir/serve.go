// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"servicedir/internal/cache"
	"servicedir/internal/database"
	"servicedir/internal/directory"
	"servicedir/internal/handlers"
	"servicedir/internal/middleware"
	"servicedir/internal/position"
	"servicedir/internal/router"
	"servicedir/internal/store"
	"servicedir/internal/taxonomy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	categoryStore := store.NewCategoryStore(db)
	providerStore := store.NewProviderStore(db)
	auditStore := store.NewAuditLogStore(db)

	// Valkey only caches resolved category sets, so the directory keeps
	// working without it.
	var setCache taxonomy.SetCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, category cache disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		setCache = cache.NewCategoryCache(valkeyClient, cfg.CategoryCacheTTL)
		slog.Info("category cache enabled", "ttl", cfg.CategoryCacheTTL.String())
	}

	resolver := taxonomy.NewResolver(categoryStore, setCache)
	mutator := position.NewMutator(providerStore, auditStore)
	dir := directory.NewService(categoryStore, providerStore, resolver)

	limiter := middleware.NewRateLimiter(cfg.AdminRateLimit, cfg.AdminRateBurst)
	defer limiter.Stop()

	r := router.New(
		handlers.NewAdmin(mutator, dir, auditStore),
		handlers.NewPublic(dir),
		limiter,
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
