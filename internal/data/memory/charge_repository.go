// Package memory provides in-process implementations of the domain
// repositories. They are the default backend for the self-contained demo
// deployment and double as test fixtures; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spacecworp-pix-gateway/internal/domain/charge"
)

// ChargeRepository implements charge.Repository on a mutex-guarded map.
// Status transitions run entirely under the write lock, which gives the
// single-writer discipline concurrent confirm/expire calls need.
type ChargeRepository struct {
	mu      sync.RWMutex
	charges map[uuid.UUID]*charge.Charge
}

// NewChargeRepository creates an empty in-memory charge repository
func NewChargeRepository() *ChargeRepository {
	return &ChargeRepository{
		charges: make(map[uuid.UUID]*charge.Charge),
	}
}

// Create stores a new charge, rejecting id reuse
func (r *ChargeRepository) Create(_ context.Context, c *charge.Charge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.charges[c.ID]; exists {
		return charge.ErrDuplicateCharge{ChargeID: c.ID}
	}
	r.charges[c.ID] = clone(c)
	return nil
}

// GetByID retrieves a charge by its id
func (r *ChargeRepository) GetByID(_ context.Context, id uuid.UUID) (*charge.Charge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.charges[id]
	if !ok {
		return nil, charge.ErrChargeNotFound{ChargeID: id}
	}
	return clone(c), nil
}

// MarkCompleted applies the confirm transition atomically
func (r *ChargeRepository) MarkCompleted(_ context.Context, id uuid.UUID, paidAt time.Time) (*charge.Charge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.charges[id]
	if !ok {
		return nil, charge.ErrChargeNotFound{ChargeID: id}
	}
	if err := c.Confirm(paidAt); err != nil {
		return nil, err
	}
	return clone(c), nil
}

// MarkExpired applies the expire transition atomically
func (r *ChargeRepository) MarkExpired(_ context.Context, id uuid.UUID) (*charge.Charge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.charges[id]
	if !ok {
		return nil, charge.ErrChargeNotFound{ChargeID: id}
	}
	if err := c.Expire(); err != nil {
		return nil, err
	}
	return clone(c), nil
}

// ListPendingOlderThan returns pending charges created before the cutoff,
// oldest first, capped at limit
func (r *ChargeRepository) ListPendingOlderThan(_ context.Context, cutoff time.Time, limit int) ([]*charge.Charge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stale []*charge.Charge
	for _, c := range r.charges {
		if c.Status == charge.StatusPending && c.CreatedAt.Before(cutoff) {
			stale = append(stale, clone(c))
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })

	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

// clone guards callers against mutating the stored record (and vice versa)
func clone(c *charge.Charge) *charge.Charge {
	copied := *c
	if c.PaidAt != nil {
		paidAt := *c.PaidAt
		copied.PaidAt = &paidAt
	}
	return &copied
}
