package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacecworp-pix-gateway/internal/domain/audit"
)

// AuditServiceImpl implements the AuditService interface
type AuditServiceImpl struct {
	auditRepo audit.Repository
	logger    *slog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(logger *slog.Logger, auditRepo audit.Repository) AuditService {
	return &AuditServiceImpl{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// RecordEvent validates and appends one audit event
func (s *AuditServiceImpl) RecordEvent(ctx context.Context, name string, details interface{}, actor string, occurredAt time.Time) (*audit.Event, error) {
	event, err := audit.NewEvent(name, details, actor, occurredAt)
	if err != nil {
		return nil, err
	}

	if err := s.auditRepo.Append(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Debug("Audit event recorded", "event", event.Name, "actor", event.Actor)

	return event, nil
}

// RecentEvents retrieves up to limit events, newest first
func (s *AuditServiceImpl) RecentEvents(ctx context.Context, limit int) ([]*audit.Event, error) {
	return s.auditRepo.Recent(ctx, limit)
}
