package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spacecworp-pix-gateway/internal/domain/audit"
	"github.com/spacecworp-pix-gateway/internal/domain/charge"
)

// ChargeService defines the interface for PIX charge operations
type ChargeService interface {
	// CreateCharge creates a new pending charge with an encoded BR Code.
	// Amount is in BRL; merchant name and city fall back to the configured
	// defaults when empty.
	CreateCharge(ctx context.Context, amount float64, key, description, merchantName, merchantCity string) (*charge.Charge, error)

	// GetChargeByID retrieves a charge by its ID
	// Returns ErrChargeNotFound if the charge doesn't exist
	GetChargeByID(ctx context.Context, id uuid.UUID) (*charge.Charge, error)

	// ConfirmCharge marks a pending charge as completed. Confirming an
	// already completed charge is a no-op returning the charge unchanged.
	// Returns ErrChargeConflict for expired or failed charges.
	ConfirmCharge(ctx context.Context, id uuid.UUID) (*charge.Charge, error)
}

// AuditService defines the interface for the audit trail
type AuditService interface {
	// RecordEvent validates and appends one audit event
	RecordEvent(ctx context.Context, name string, details interface{}, actor string, occurredAt time.Time) (*audit.Event, error)

	// RecentEvents retrieves up to limit events, newest first
	RecentEvents(ctx context.Context, limit int) ([]*audit.Event, error)
}
