// Package mongo provides the MongoDB implementation of the audit trail.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spacecworp-pix-gateway/internal/domain/audit"
)

const (
	// AuditCollectionName is the name of the audit event collection in MongoDB
	AuditCollectionName = "audit_events"
)

// AuditRepository implements the audit.Repository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) audit.Repository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Append stores a new audit event. Events are immutable once written.
func (r *AuditRepository) Append(ctx context.Context, event *audit.Event) error {
	collection := r.db.Collection(AuditCollectionName)

	_, err := collection.InsertOne(ctx, event)
	if err != nil {
		r.logger.Error("Failed to append audit event",
			"event", event.Name,
			"error", err)
		return fmt.Errorf("failed to append audit event: %w", err)
	}

	return nil
}

// Recent retrieves up to limit audit events, newest first by recording time.
// A non-positive limit falls back to audit.DefaultRecentLimit.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]*audit.Event, error) {
	if limit <= 0 {
		limit = audit.DefaultRecentLimit
	}

	collection := r.db.Collection(AuditCollectionName)

	opts := options.Find().
		SetSort(bson.M{"recorded_at": -1}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to get audit events", "error", err)
		return nil, fmt.Errorf("failed to get audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*audit.Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode audit events", "error", err)
		return nil, fmt.Errorf("failed to decode audit events: %w", err)
	}

	return events, nil
}
