package domain

import (
	"time"

	"github.com/google/uuid"
)

// Payment records a verified subscription payment. The provider reference is
// unique, so a payment is only ever applied once.
type Payment struct {
	ID          uuid.UUID
	Reference   string
	UserID      uuid.UUID
	AmountMinor int64
	Currency    string
	PaidAt      time.Time
	CreatedAt   time.Time
}

// NewPayment creates a Payment for a verified provider transaction.
func NewPayment(reference string, userID uuid.UUID, amountMinor int64, currency string, paidAt time.Time) *Payment {
	return &Payment{
		ID:          uuid.New(),
		Reference:   reference,
		UserID:      userID,
		AmountMinor: amountMinor,
		Currency:    currency,
		PaidAt:      paidAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}
}
