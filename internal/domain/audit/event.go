// Package audit holds the append-only trail of PIX-related events: actions
// reported by clients plus the lifecycle entries the gateway records itself.
package audit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrMissingName       = errors.New("event name is required")
	ErrMissingActor      = errors.New("event actor is required")
	ErrMissingOccurredAt = errors.New("event timestamp is required")
)

// Event is one audit trail entry. Details is free-form and carried as-is;
// OccurredAt is the caller's clock, RecordedAt is ours.
type Event struct {
	ID         uuid.UUID   `json:"id" bson:"id"`
	Name       string      `json:"event" bson:"event"`
	Details    interface{} `json:"details,omitempty" bson:"details,omitempty"`
	Actor      string      `json:"user" bson:"user"`
	OccurredAt time.Time   `json:"timestamp" bson:"timestamp"`
	RecordedAt time.Time   `json:"recorded_at" bson:"recorded_at"`
}

// NewEvent validates the required fields and stamps the record
func NewEvent(name string, details interface{}, actor string, occurredAt time.Time) (*Event, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if actor == "" {
		return nil, ErrMissingActor
	}
	if occurredAt.IsZero() {
		return nil, ErrMissingOccurredAt
	}

	return &Event{
		ID:         uuid.New(),
		Name:       name,
		Details:    details,
		Actor:      actor,
		OccurredAt: occurredAt,
		RecordedAt: time.Now(),
	}, nil
}
