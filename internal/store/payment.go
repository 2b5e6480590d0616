package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/studygen/internal/domain"
)

// PaymentStore records verified subscription payments.
type PaymentStore interface {
	// Create saves a payment. Returns ErrPaymentExists if the reference was
	// already recorded.
	Create(ctx context.Context, payment *domain.Payment) error

	// WithTx returns a PaymentStore that runs its queries in tx.
	WithTx(tx *sql.Tx) PaymentStore
}
