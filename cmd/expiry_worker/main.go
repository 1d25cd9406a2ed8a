package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spacecworp-pix-gateway/internal/config"
	"github.com/spacecworp-pix-gateway/internal/data/memory"
	"github.com/spacecworp-pix-gateway/internal/data/mongo"
	"github.com/spacecworp-pix-gateway/internal/data/postgres"
	"github.com/spacecworp-pix-gateway/internal/domain/audit"
	"github.com/spacecworp-pix-gateway/internal/expiry"
	"github.com/spacecworp-pix-gateway/internal/logger"
	"github.com/spacecworp-pix-gateway/internal/platform/messaging/producers"
	"github.com/spacecworp-pix-gateway/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("expiry_worker")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting expiry worker",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// The worker sweeps charges created by the gateway process, so it needs a
	// shared store. An in-memory charge store is per-process and cannot be
	// swept from here.
	if cfg.Storage.ChargeBackend != config.ChargeBackendPostgres {
		log.Error("Expiry worker requires CHARGE_STORE_BACKEND=postgres",
			"configured", cfg.Storage.ChargeBackend,
		)
		os.Exit(1)
	}

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}
	chargeRepo := postgres.NewChargeRepository(log, postgresDB)

	// Initialize the audit store for the configured backend
	var auditRepo audit.Repository
	var mongoDB *persistence.MongoDB
	switch cfg.Storage.AuditBackend {
	case config.AuditBackendMongo:
		mongoDB, err = persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			os.Exit(1)
		}
		auditRepo = mongo.NewAuditRepository(log, mongoDB.Database())
	default:
		auditRepo = memory.NewAuditRepository()
	}

	// Initialize the charge event producer; without Kafka events are dropped
	var producer producers.MessagePublisher = producers.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err = producers.NewChargeEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize charge event producer", "error", err)
			os.Exit(1)
		}
	}

	// Initialize expiry pipeline
	pool, err := expiry.NewWorkerPool(cfg.WorkerPool.Size, log)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	expireService := expiry.NewExpireService(log, chargeRepo, auditRepo, producer)
	poller := expiry.NewPoller(&cfg.Expiry, chargeRepo, expireService, pool, log)

	// Start poller in a goroutine
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	<-quit
	log.Info("Shutdown signal received")

	// Cancel the application context and wait for the poller to drain
	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("Poller stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	pool.Release()

	if err = producer.Close(); err != nil {
		log.Error("Error closing charge event producer", "error", err)
	}

	postgresDB.Close()

	if mongoDB != nil {
		if err = mongoDB.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}

	log.Info("Expiry worker shutdown completed")
}
