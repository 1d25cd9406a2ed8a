package memory

import (
	"context"
	"sync"

	"github.com/spacecworp-pix-gateway/internal/domain/audit"
)

// AuditRepository implements audit.Repository on an append-only slice
type AuditRepository struct {
	mu     sync.RWMutex
	events []*audit.Event
}

// NewAuditRepository creates an empty in-memory audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Append records an event at the end of the trail
func (r *AuditRepository) Append(_ context.Context, event *audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *event
	r.events = append(r.events, &copied)
	return nil
}

// Recent returns up to limit events, newest first
func (r *AuditRepository) Recent(_ context.Context, limit int) ([]*audit.Event, error) {
	if limit <= 0 {
		limit = audit.DefaultRecentLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	start := len(r.events) - limit
	if start < 0 {
		start = 0
	}

	recent := make([]*audit.Event, 0, len(r.events)-start)
	for i := len(r.events) - 1; i >= start; i-- {
		copied := *r.events[i]
		recent = append(recent, &copied)
	}
	return recent, nil
}
