package charge

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages charge persistence. Status transitions are exposed as
// atomic operations so concurrent confirm/expire calls on the same charge
// cannot lose updates.
type Repository interface {
	Create(ctx context.Context, c *Charge) error
	GetByID(ctx context.Context, id uuid.UUID) (*Charge, error)

	// MarkCompleted applies the pending->completed transition and returns the
	// updated charge. Re-confirming a completed charge returns it unchanged;
	// terminal states return ErrChargeConflict.
	MarkCompleted(ctx context.Context, id uuid.UUID, paidAt time.Time) (*Charge, error)

	// MarkExpired applies pending->expired, returning ErrChargeConflict when
	// the charge already left the pending state.
	MarkExpired(ctx context.Context, id uuid.UUID) (*Charge, error)

	// ListPendingOlderThan returns up to limit pending charges created before
	// the cutoff, oldest first.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*Charge, error)
}

// ErrChargeNotFound indicates a missing charge
type ErrChargeNotFound struct {
	ChargeID uuid.UUID
}

func (e ErrChargeNotFound) Error() string {
	return "charge not found: " + e.ChargeID.String()
}

// Is implements the errors.Is interface for ErrChargeNotFound
func (e ErrChargeNotFound) Is(target error) bool {
	t, ok := target.(ErrChargeNotFound)
	if !ok {
		return false
	}
	// An empty target ChargeID matches any ErrChargeNotFound
	if t.ChargeID == uuid.Nil {
		return true
	}
	return e.ChargeID == t.ChargeID
}

// ErrDuplicateCharge indicates a charge id uniqueness violation
type ErrDuplicateCharge struct {
	ChargeID uuid.UUID
}

func (e ErrDuplicateCharge) Error() string {
	return "duplicate charge: " + e.ChargeID.String()
}

// Is implements the errors.Is interface for ErrDuplicateCharge
func (e ErrDuplicateCharge) Is(target error) bool {
	t, ok := target.(ErrDuplicateCharge)
	if !ok {
		return false
	}
	if t.ChargeID == uuid.Nil {
		return true
	}
	return e.ChargeID == t.ChargeID
}

// ErrChargeConflict indicates a status transition attempted on a charge whose
// current state forbids it (e.g. confirming an expired charge).
type ErrChargeConflict struct {
	ChargeID uuid.UUID
	Status   Status
}

func (e ErrChargeConflict) Error() string {
	return "charge " + e.ChargeID.String() + " is " + string(e.Status) + " and cannot transition"
}

// Is implements the errors.Is interface for ErrChargeConflict
func (e ErrChargeConflict) Is(target error) bool {
	t, ok := target.(ErrChargeConflict)
	if !ok {
		return false
	}
	if t.ChargeID == uuid.Nil {
		return true
	}
	return e.ChargeID == t.ChargeID
}
