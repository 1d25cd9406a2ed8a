package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/spacecworp-pix-gateway/internal/config"
)

// ChargeEventProducer publishes charge lifecycle events (created, confirmed,
// expired) to the charge events topic, keyed by charge ID so all events for
// one charge land on the same partition.
type ChargeEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewChargeEventProducer creates the producer and ensures the topic exists
func NewChargeEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*ChargeEventProducer, error) {
	if cfg.ChargeEventsTopic == "" {
		return nil, fmt.Errorf("kafka charge events topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for charge event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.ChargeEventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure charge events topic %s exists: %w", cfg.ChargeEventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.ChargeEventsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Event publishing must never block the request path
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write charge events asynchronously", "topic", cfg.ChargeEventsTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote charge events asynchronously", "topic", cfg.ChargeEventsTopic, "count", len(messages))
			}
		},
	}

	return &ChargeEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.ChargeEventsTopic,
	}, nil
}

func (p *ChargeEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal charge event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish charge event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish charge event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published charge event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *ChargeEventProducer) Close() error {
	p.logger.Info("Closing charge event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close charge events kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}

// NoopPublisher satisfies MessagePublisher when Kafka is disabled
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, key string, value interface{}) error { return nil }

func (NoopPublisher) Close() error { return nil }
