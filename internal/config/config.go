// Package config provides configuration structures and validation for the
// PIX charge gateway. Settings are environment-based and cover the HTTP
// server, the pluggable storage backends, Kafka event publishing and the
// charge expiry worker.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Storage backend selectors
const (
	ChargeBackendMemory   = "memory"
	ChargeBackendPostgres = "postgres"

	AuditBackendMemory = "memory"
	AuditBackendMongo  = "mongo"
)

// Config holds the complete application configuration. Each field represents
// one subsystem and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Storage     StorageConfig
	Pix         PixConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	Expiry      ExpiryConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// StorageConfig selects repository backends. The in-memory stores keep the
// gateway self-contained for demos and tests; postgres/mongo back the same
// interfaces for real deployments.
type StorageConfig struct {
	ChargeBackend string
	AuditBackend  string
}

// PixConfig carries receiver defaults applied when a charge request omits
// merchant fields
type PixConfig struct {
	MerchantName string
	MerchantCity string
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig contains charge event publishing configuration. Publishing is
// optional; with Enabled false the gateway uses a no-op publisher.
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	ChargeEventsTopic string
	NumPartitions     int
	ReplicationFactor int
	MaxWait           time.Duration
}

// ExpiryConfig drives the expiry worker's sweep of stale pending charges
type ExpiryConfig struct {
	PollingInterval time.Duration
	BatchSize       int
	Window          time.Duration
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int
}

// validate performs validation of all configuration values, ensuring they
// meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	switch c.Storage.ChargeBackend {
	case ChargeBackendMemory:
	case ChargeBackendPostgres:
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required for the postgres charge backend")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("CHARGE_STORE_BACKEND must be %q or %q", ChargeBackendMemory, ChargeBackendPostgres))
	}

	switch c.Storage.AuditBackend {
	case AuditBackendMemory:
	case AuditBackendMongo:
		if c.MongoDB.URI == "" {
			validationErrors = append(validationErrors, "MONGO_URI is required for the mongo audit backend")
		}
		if c.MongoDB.Database == "" {
			validationErrors = append(validationErrors, "MONGO_DATABASE is required for the mongo audit backend")
		}
		if c.MongoDB.Timeout <= 0 {
			validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
		}
		if c.MongoDB.MaxPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
		}
		if c.MongoDB.MinPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
		}
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("AUDIT_STORE_BACKEND must be %q or %q", AuditBackendMemory, AuditBackendMongo))
	}

	if c.Pix.MerchantName == "" {
		validationErrors = append(validationErrors, "PIX_MERCHANT_NAME is required")
	}
	if c.Pix.MerchantCity == "" {
		validationErrors = append(validationErrors, "PIX_MERCHANT_CITY is required")
	}

	if c.Kafka.Enabled {
		if c.Kafka.Brokers == "" {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required when Kafka is enabled")
		}
		if c.Kafka.ChargeEventsTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_CHARGE_EVENTS_TOPIC is required when Kafka is enabled")
		}
		if c.Kafka.MaxWait <= 0 {
			validationErrors = append(validationErrors, "KAFKA_MAX_WAIT must be greater than 0")
		}
	}

	if c.Expiry.PollingInterval <= 0 {
		validationErrors = append(validationErrors, "EXPIRY_POLLING_INTERVAL must be greater than 0")
	}
	if c.Expiry.BatchSize <= 0 {
		validationErrors = append(validationErrors, "EXPIRY_BATCH_SIZE must be greater than 0")
	}
	if c.Expiry.Window <= 0 {
		validationErrors = append(validationErrors, "EXPIRY_WINDOW must be greater than 0")
	}

	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
