// Package expiry sweeps stale pending charges into the expired state. It is
// the only writer of that transition; confirmations racing a sweep are
// resolved by the store's atomic status guard.
package expiry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spacecworp-pix-gateway/internal/domain/audit"
	"github.com/spacecworp-pix-gateway/internal/domain/charge"
	"github.com/spacecworp-pix-gateway/internal/platform/messaging/producers"
)

const auditActor = "expiry_worker"

// Service expires individual charges
type Service interface {
	// ExpireCharge moves one pending charge to expired. Losing the race to a
	// concurrent confirm is not an error; the charge is simply skipped.
	ExpireCharge(ctx context.Context, id uuid.UUID) error
}

// ExpireServiceImpl implements the Service interface
type ExpireServiceImpl struct {
	chargeRepo charge.Repository
	auditRepo  audit.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewExpireService creates a new expire service
func NewExpireService(logger *slog.Logger, chargeRepo charge.Repository, auditRepo audit.Repository, producer producers.MessagePublisher) Service {
	return &ExpireServiceImpl{
		chargeRepo: chargeRepo,
		auditRepo:  auditRepo,
		producer:   producer,
		logger:     logger,
	}
}

// ExpireCharge moves one pending charge to expired, then publishes the
// lifecycle event and appends the audit entry (both best-effort)
func (s *ExpireServiceImpl) ExpireCharge(ctx context.Context, id uuid.UUID) error {
	c, err := s.chargeRepo.MarkExpired(ctx, id)
	if err != nil {
		var conflict charge.ErrChargeConflict
		if errors.As(err, &conflict) {
			s.logger.Debug("Charge no longer pending, skipping expiry",
				"charge_id", id,
				"status", conflict.Status,
			)
			return nil
		}
		var notFound charge.ErrChargeNotFound
		if errors.As(err, &notFound) {
			s.logger.Warn("Charge vanished between listing and expiry", "charge_id", id)
			return nil
		}
		return err
	}

	s.logger.Info("Charge expired", "charge_id", c.ID, "created_at", c.CreatedAt)

	event := charge.NewEvent(charge.EventExpired, c)
	if err := s.producer.Publish(ctx, c.ID.String(), event); err != nil {
		s.logger.Error("Failed to publish charge event",
			"event", charge.EventExpired,
			"charge_id", c.ID,
			"error", err,
		)
	}

	auditEvent, err := audit.NewEvent(charge.EventExpired, event, auditActor, event.OccurredAt)
	if err == nil {
		if err := s.auditRepo.Append(ctx, auditEvent); err != nil {
			s.logger.Error("Failed to append audit event",
				"event", charge.EventExpired,
				"charge_id", c.ID,
				"error", err,
			)
		}
	}

	return nil
}
