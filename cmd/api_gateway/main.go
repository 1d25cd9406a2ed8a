package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacecworp-pix-gateway/internal/api_gateway"
	"github.com/spacecworp-pix-gateway/internal/api_gateway/service"
	"github.com/spacecworp-pix-gateway/internal/config"
	"github.com/spacecworp-pix-gateway/internal/data/memory"
	"github.com/spacecworp-pix-gateway/internal/data/mongo"
	"github.com/spacecworp-pix-gateway/internal/data/postgres"
	"github.com/spacecworp-pix-gateway/internal/domain/audit"
	"github.com/spacecworp-pix-gateway/internal/domain/charge"
	"github.com/spacecworp-pix-gateway/internal/logger"
	"github.com/spacecworp-pix-gateway/internal/platform/messaging/producers"
	"github.com/spacecworp-pix-gateway/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize the charge store for the configured backend
	var chargeRepo charge.Repository
	var postgresDB *persistence.PostgresDB
	switch cfg.Storage.ChargeBackend {
	case config.ChargeBackendPostgres:
		postgresDB, err = persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}
		chargeRepo = postgres.NewChargeRepository(log, postgresDB)
	default:
		chargeRepo = memory.NewChargeRepository()
	}

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

	// Initialize services
	chargeService := service.NewChargeService(log, chargeRepo, auditRepo, producer, cfg.Pix)
	auditService := service.NewAuditService(log, auditRepo)

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, chargeService, auditService)
	log.Info("REST server initialized",
		"charge_backend", cfg.Storage.ChargeBackend,
		"audit_backend", cfg.Storage.AuditBackend,
		"kafka_enabled", cfg.Kafka.Enabled,
	)

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = producer.Close(); err != nil {
		log.Error("Error closing charge event producer", "error", err)
	}

	if postgresDB != nil {
		postgresDB.Close()
	}

	if mongoDB != nil {
		if err = mongoDB.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
