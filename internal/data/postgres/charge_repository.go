// Package postgres provides the PostgreSQL implementation of the charge
// repository. Lifecycle transitions are expressed as guarded UPDATEs so the
// pending to completed and pending to expired moves stay atomic even under
// concurrent confirmations and worker sweeps.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spacecworp-pix-gateway/internal/domain/charge"
	"github.com/spacecworp-pix-gateway/internal/platform/persistence"
)

// ChargeRepository implements the charge.Repository interface for PostgreSQL
type ChargeRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewChargeRepository creates a new PostgreSQL charge repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewChargeRepository(logger *slog.Logger, db *persistence.PostgresDB) charge.Repository {
	return &ChargeRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so that charge updates can
// participate in a larger atomic operation.
func (r *ChargeRepository) WithTx(tx pgx.Tx) charge.Repository {
	return &ChargeRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new charge. Reusing an existing ID returns
// charge.ErrDuplicateCharge.
func (r *ChargeRepository) Create(ctx context.Context, c *charge.Charge) error {
	query := `
		INSERT INTO pix_charges (id, amount_cents, pix_key, description, merchant_name, merchant_city, transaction_id, status, qr_payload, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.querier.Exec(ctx, query,
		c.ID,
		c.AmountCents,
		c.Key,
		c.Description,
		c.MerchantName,
		c.MerchantCity,
		c.TransactionID,
		c.Status,
		c.QRPayload,
		c.CreatedAt,
		c.PaidAt,
	)
	if err != nil {
		r.logger.Error("Failed to create charge", "error", err)
		return fmt.Errorf("failed to create charge: %w", err)
	}

	if result.RowsAffected() == 0 {
		return charge.ErrDuplicateCharge{ChargeID: c.ID}
	}

	return nil
}

// GetByID retrieves a charge by its ID
func (r *ChargeRepository) GetByID(ctx context.Context, id uuid.UUID) (*charge.Charge, error) {
	query := `
		SELECT id, amount_cents, pix_key, description, merchant_name, merchant_city, transaction_id, status, qr_payload, created_at, paid_at
		FROM pix_charges
		WHERE id = $1
	`

	c, err := r.scanCharge(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, charge.ErrChargeNotFound{ChargeID: id}
		}
		r.logger.Error("Failed to get charge", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get charge: %w", err)
	}

	return c, nil
}

// MarkCompleted moves a pending charge to completed, recording paidAt.
// Confirming an already completed charge is a no-op that keeps the original
// payment timestamp. Expired and failed charges return charge.ErrChargeConflict.
func (r *ChargeRepository) MarkCompleted(ctx context.Context, id uuid.UUID, paidAt time.Time) (*charge.Charge, error) {
	query := `
		UPDATE pix_charges
		SET status = $1, paid_at = COALESCE(paid_at, $2)
		WHERE id = $3 AND status IN ($4, $5)
		RETURNING id, amount_cents, pix_key, description, merchant_name, merchant_city, transaction_id, status, qr_payload, created_at, paid_at
	`

	c, err := r.scanCharge(r.querier.QueryRow(ctx, query,
		charge.StatusCompleted, paidAt, id, charge.StatusPending, charge.StatusCompleted,
	))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("Failed to mark charge completed", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to mark charge completed: %w", err)
	}

	// No row matched the guard: either the charge is missing or it sits in a
	// terminal state. A follow-up read tells the two apart.
	existing, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, charge.ErrChargeConflict{ChargeID: id, Status: existing.Status}
}

// MarkExpired moves a pending charge to expired. Any other current status
// returns charge.ErrChargeConflict.
func (r *ChargeRepository) MarkExpired(ctx context.Context, id uuid.UUID) (*charge.Charge, error) {
	query := `
		UPDATE pix_charges
		SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING id, amount_cents, pix_key, description, merchant_name, merchant_city, transaction_id, status, qr_payload, created_at, paid_at
	`

	c, err := r.scanCharge(r.querier.QueryRow(ctx, query, charge.StatusExpired, id, charge.StatusPending))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("Failed to mark charge expired", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to mark charge expired: %w", err)
	}

	existing, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, charge.ErrChargeConflict{ChargeID: id, Status: existing.Status}
}

// ListPendingOlderThan returns up to limit pending charges created before
// cutoff, oldest first. The expiry worker feeds its sweep from this query.
func (r *ChargeRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*charge.Charge, error) {
	query := `
		SELECT id, amount_cents, pix_key, description, merchant_name, merchant_city, transaction_id, status, qr_payload, created_at, paid_at
		FROM pix_charges
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.querier.Query(ctx, query, charge.StatusPending, cutoff, limit)
	if err != nil {
		r.logger.Error("Failed to list pending charges", "error", err)
		return nil, fmt.Errorf("failed to list pending charges: %w", err)
	}
	defer rows.Close()

	var charges []*charge.Charge
	for rows.Next() {
		c, err := r.scanCharge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan charge: %w", err)
		}
		charges = append(charges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate charges: %w", err)
	}

	return charges, nil
}

func (r *ChargeRepository) scanCharge(row pgx.Row) (*charge.Charge, error) {
	var c charge.Charge
	err := row.Scan(
		&c.ID,
		&c.AmountCents,
		&c.Key,
		&c.Description,
		&c.MerchantName,
		&c.MerchantCity,
		&c.TransactionID,
		&c.Status,
		&c.QRPayload,
		&c.CreatedAt,
		&c.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
