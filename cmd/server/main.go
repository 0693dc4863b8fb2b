package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/st9-8/mouegne/internal/config"
	"github.com/st9-8/mouegne/internal/infra"
	"github.com/st9-8/mouegne/internal/metrics"
	"github.com/st9-8/mouegne/internal/repository"
	"github.com/st9-8/mouegne/internal/router"
	"github.com/st9-8/mouegne/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// Structured logger: dev: pretty, prod: JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch {
	case infra.IsSQLite(cfg.DatabaseURL):
		if err := infra.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate sqlite database")
		}
	case cfg.DBAutoMigrate:
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get sql.DB")
		}
		if err := infra.Migrate(ctx, sqlDB, "up"); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	printer := infra.NewPrinter(cfg.PrintCommand, cfg.PrintMedia, cfg.PrinterName)
	printerCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	receiptRepo := repository.NewReceiptRepository(db)

	receiptWorker := worker.NewReceiptWorker(worker.ReceiptWorkerConfig{
		Sales:       repository.NewSaleRepository(db),
		Deliveries:  repository.NewDeliveryRepository(db),
		Receipts:    receiptRepo,
		Spooler:     printer,
		CB:          printerCB,
		Dispatcher:  dispatcher,
		RDB:         rdb,
		Company:     cfg.Company,
		StoragePath: cfg.ReceiptStoragePath,
		Metrics:     metrics.NewReceiptMetrics(prometheus.DefaultRegisterer),
	})
	handlers := map[string]worker.Handler{
		worker.JobReceipt: receiptWorker,
		worker.JobReprint: worker.HandlerFunc(receiptWorker.ProcessReprint),
		worker.JobEmail:   worker.NewEmailWorker(mailer, receiptRepo, cfg.ReceiptStoragePath),
	}
	worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		Receipts: receiptRepo,
		Worker:   receiptWorker,
		CB:       printerCB,
		Locker:   infra.NewLocker(rdb),
	})

	r := router.New(router.Deps{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Dispatcher: dispatcher,
		Printers:   printer,
		PrinterCB:  printerCB,
		Registerer: prometheus.DefaultRegisterer,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("mouegne listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
