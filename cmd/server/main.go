// Package main is the entry point for the bintrack API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bintrack/internal/domain/catalogs/bin"
	"bintrack/internal/domain/catalogs/item"
	"bintrack/internal/domain/history"
	"bintrack/internal/domain/ledger"
	"bintrack/internal/domain/reports"
	"bintrack/internal/infrastructure/config"
	"bintrack/internal/infrastructure/export"
	v1 "bintrack/internal/infrastructure/http/v1"
	"bintrack/internal/infrastructure/storage/postgres"
	"bintrack/internal/infrastructure/storage/postgres/catalog_repo"
	"bintrack/internal/infrastructure/storage/postgres/history_repo"
	"bintrack/internal/infrastructure/storage/postgres/ledger_repo"
	"bintrack/internal/infrastructure/storage/postgres/report_repo"
	"bintrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting bintrack server")

	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg.Database))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	binRepo := catalog_repo.NewBinRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	placementRepo := ledger_repo.NewPlacementRepo(txManager)
	historyRepo := history_repo.NewHistoryRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	binService := bin.NewService(binRepo)
	itemService := item.NewService(itemRepo)
	ledgerService := ledger.NewService(binRepo, itemRepo, placementRepo, historyRepo, txManager)
	reportsService := reports.NewService(reportRepo)
	historyService := history.NewService(historyRepo)
	exporter := export.NewExporter(reportsService, historyService)

	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		Bins:             binService,
		Items:            itemService,
		Ledger:           ledgerService,
		Reports:          reportsService,
		History:          historyService,
		Exporter:         exporter,
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
