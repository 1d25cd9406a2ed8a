package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spacecworp-pix-gateway/internal/config"
	"github.com/spacecworp-pix-gateway/internal/domain/audit"
	"github.com/spacecworp-pix-gateway/internal/domain/charge"
	"github.com/spacecworp-pix-gateway/internal/platform/messaging/producers"
)

const auditActor = "api_gateway"

// ChargeServiceImpl implements the ChargeService interface
type ChargeServiceImpl struct {
	chargeRepo charge.Repository
	auditRepo  audit.Repository
	producer   producers.MessagePublisher
	pixCfg     config.PixConfig
	logger     *slog.Logger
}

// NewChargeService creates a new charge service
func NewChargeService(logger *slog.Logger, chargeRepo charge.Repository, auditRepo audit.Repository, producer producers.MessagePublisher, pixCfg config.PixConfig) ChargeService {
	return &ChargeServiceImpl{
		chargeRepo: chargeRepo,
		auditRepo:  auditRepo,
		producer:   producer,
		pixCfg:     pixCfg,
		logger:     logger,
	}
}

// CreateCharge builds a pending charge with its BR Code and stores it.
// The lifecycle event and audit entry are best-effort: their failures are
// logged but never fail the request.
func (s *ChargeServiceImpl) CreateCharge(ctx context.Context, amount float64, key, description, merchantName, merchantCity string) (*charge.Charge, error) {
	amountCents, err := charge.AmountToCents(amount)
	if err != nil {
		return nil, err
	}

	if merchantName == "" {
		merchantName = s.pixCfg.MerchantName
	}
	if merchantCity == "" {
		merchantCity = s.pixCfg.MerchantCity
	}

	c, err := charge.New(amountCents, key, description, merchantName, merchantCity)
	if err != nil {
		return nil, err
	}

	if err := s.chargeRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Charge created",
		"charge_id", c.ID,
		"transaction_id", c.TransactionID,
		"amount_cents", c.AmountCents,
	)

	s.emitLifecycleEvent(ctx, charge.EventCreated, c)

	return c, nil
}

// GetChargeByID retrieves a charge by its ID
func (s *ChargeServiceImpl) GetChargeByID(ctx context.Context, id uuid.UUID) (*charge.Charge, error) {
	return s.chargeRepo.GetByID(ctx, id)
}

// ConfirmCharge marks a pending charge as completed, stamping the payment time
func (s *ChargeServiceImpl) ConfirmCharge(ctx context.Context, id uuid.UUID) (*charge.Charge, error) {
	c, err := s.chargeRepo.MarkCompleted(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Charge confirmed",
		"charge_id", c.ID,
		"paid_at", c.PaidAt,
	)

	s.emitLifecycleEvent(ctx, charge.EventConfirmed, c)

	return c, nil
}

// emitLifecycleEvent publishes the charge event and appends the matching
// audit entry. Both are best-effort.
func (s *ChargeServiceImpl) emitLifecycleEvent(ctx context.Context, eventType string, c *charge.Charge) {
	event := charge.NewEvent(eventType, c)

	if err := s.producer.Publish(ctx, c.ID.String(), event); err != nil {
		s.logger.Error("Failed to publish charge event",
			"event", eventType,
			"charge_id", c.ID,
			"error", err,
		)
	}

	auditEvent, err := audit.NewEvent(eventType, event, auditActor, event.OccurredAt)
	if err != nil {
		s.logger.Error("Failed to build audit event", "event", eventType, "error", err)
		return
	}
	if err := s.auditRepo.Append(ctx, auditEvent); err != nil {
		s.logger.Error("Failed to append audit event",
			"event", eventType,
			"charge_id", c.ID,
			"error", err,
		)
	}
}
