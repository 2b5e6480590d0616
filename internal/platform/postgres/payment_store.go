package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/store"
)

// PostgresPaymentStore implements store.PaymentStore on PostgreSQL.
type PostgresPaymentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPaymentStore creates a PaymentStore. A nil logger selects slog.Default.
func NewPostgresPaymentStore(db store.DBTX, logger *slog.Logger) *PostgresPaymentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPaymentStore{
		db:     db,
		logger: logger.With(slog.String("component", "payment_store")),
	}
}

var _ store.PaymentStore = (*PostgresPaymentStore)(nil)

// WithTx implements store.PaymentStore.WithTx
func (s *PostgresPaymentStore) WithTx(tx *sql.Tx) store.PaymentStore {
	return &PostgresPaymentStore{db: tx, logger: s.logger}
}

// Create implements store.PaymentStore.Create
func (s *PostgresPaymentStore) Create(ctx context.Context, p *domain.Payment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, reference, user_id, amount_minor, currency, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.Reference, p.UserID, p.AmountMinor, p.Currency, p.PaidAt, p.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Info("payment already recorded", slog.String("reference", p.Reference))
			return MapUniqueViolation(err, store.ErrPaymentExists)
		}
		log.Error("failed to record payment",
			slog.String("error", err.Error()),
			slog.String("reference", p.Reference))
		return MapError(err)
	}

	log.Info("payment recorded",
		slog.String("reference", p.Reference),
		slog.String("user_id", p.UserID.String()))
	return nil
}
