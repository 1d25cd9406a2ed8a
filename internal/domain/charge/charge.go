package charge

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacecworp-pix-gateway/internal/brcode"
)

// Status defines the lifecycle states of a PIX charge
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusExpired   Status = "expired"
)

// Common errors
var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrSubCentAmount     = errors.New("amount has sub-cent precision")
)

// Charge represents one PIX payment request. QRPayload is rendered once at
// creation and never recomputed; PaidAt is set only on the transition to
// completed.
type Charge struct {
	ID            uuid.UUID  `json:"id"`
	AmountCents   int64      `json:"amount_cents"`
	Key           string     `json:"key"`
	Description   string     `json:"description,omitempty"`
	MerchantName  string     `json:"merchant_name"`
	MerchantCity  string     `json:"merchant_city"`
	TransactionID string     `json:"transaction_id"`
	Status        Status     `json:"status"`
	QRPayload     string     `json:"qr"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// New builds a pending charge: assigns the id, derives the transaction id,
// normalizes the key, caps display fields to their encoder ceilings and
// renders the BR Code. Any validation failure from the encoder aborts the
// whole construction, so no half-built charge ever reaches a repository.
func New(amountCents int64, key, description, merchantName, merchantCity string) (*Charge, error) {
	id := uuid.New()
	txID := TxIDFromChargeID(id)

	normalizedKey := brcode.NormalizeKey(key)
	name := clamp(merchantName, brcode.MaxMerchantNameLength)
	city := clamp(merchantCity, brcode.MaxMerchantCityLength)
	note := clamp(description, brcode.MaxDescriptionLength)

	qr, err := brcode.Payload{
		Key:          normalizedKey,
		MerchantName: name,
		MerchantCity: city,
		AmountCents:  amountCents,
		TxID:         txID,
		Description:  note,
	}.Encode()
	if err != nil {
		return nil, err
	}

	return &Charge{
		ID:            id,
		AmountCents:   amountCents,
		Key:           normalizedKey,
		Description:   note,
		MerchantName:  name,
		MerchantCity:  city,
		TransactionID: txID,
		Status:        StatusPending,
		QRPayload:     qr,
		CreatedAt:     time.Now(),
	}, nil
}

// Confirm moves a pending charge to completed. Confirming an already
// completed charge is a no-op that preserves the original PaidAt; terminal
// states (expired, failed) reject the transition.
func (c *Charge) Confirm(paidAt time.Time) error {
	switch c.Status {
	case StatusCompleted:
		return nil
	case StatusPending:
		c.Status = StatusCompleted
		c.PaidAt = &paidAt
		return nil
	default:
		return ErrChargeConflict{ChargeID: c.ID, Status: c.Status}
	}
}

// Expire moves a pending charge to expired. Only pending charges can expire.
func (c *Charge) Expire() error {
	if c.Status != StatusPending {
		return ErrChargeConflict{ChargeID: c.ID, Status: c.Status}
	}
	c.Status = StatusExpired
	return nil
}

// TxIDFromChargeID derives the BR Code reference label from a charge id:
// the UUID with hyphens removed (32 characters, within the 35-char ceiling).
func TxIDFromChargeID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

// AmountToCents converts a decimal amount to centavos. Amounts must be
// positive and representable with exactly two fractional digits; sub-cent
// values are rejected rather than rounded.
func AmountToCents(amount float64) (int64, error) {
	if amount <= 0 {
		return 0, ErrNonPositiveAmount
	}
	cents := math.Round(amount * 100)
	if math.Abs(amount*100-cents) > 1e-6 {
		return 0, ErrSubCentAmount
	}
	return int64(cents), nil
}

// IsValidationError reports whether err is a client-input fault (bad charge
// fields or amount) as opposed to an internal failure.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrNonPositiveAmount,
		ErrSubCentAmount,
		brcode.ErrMissingKey,
		brcode.ErrKeyTooLong,
		brcode.ErrInvalidAmount,
		brcode.ErrMissingMerchantName,
		brcode.ErrMissingMerchantCity,
		brcode.ErrMissingTxID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func clamp(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}
