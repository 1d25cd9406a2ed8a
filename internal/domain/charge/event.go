package charge

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle event types published to the charge events topic
const (
	EventCreated   = "pix.charge.created"
	EventConfirmed = "pix.charge.confirmed"
	EventExpired   = "pix.charge.expired"
)

// Event is the message published when a charge changes state. Consumers use
// it the way a PSP webhook would be used: to observe the lifecycle, never to
// mutate the charge through this core.
type Event struct {
	Type          string    `json:"type"`
	ChargeID      uuid.UUID `json:"charge_id"`
	TransactionID string    `json:"transaction_id"`
	Status        Status    `json:"status"`
	AmountCents   int64     `json:"amount_cents"`
	Key           string    `json:"key"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent snapshots a charge into a lifecycle event of the given type
func NewEvent(eventType string, c *Charge) *Event {
	return &Event{
		Type:          eventType,
		ChargeID:      c.ID,
		TransactionID: c.TransactionID,
		Status:        c.Status,
		AmountCents:   c.AmountCents,
		Key:           c.Key,
		OccurredAt:    time.Now(),
	}
}
