package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/platform/paystack"
	"github.com/phrazzld/studygen/internal/store"
)

// PaymentProvider is the payment gateway used for subscriptions.
type PaymentProvider interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.Checkout, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
}

// SubscriptionResult describes a verified subscription payment.
type SubscriptionResult struct {
	UserID          uuid.UUID
	SubscribedUntil time.Time

	// AlreadyApplied is true when the payment had been verified before and
	// the subscription was left unchanged.
	AlreadyApplied bool
}

// SubscriptionService sells and activates subscriptions.
type SubscriptionService interface {
	// Start creates a checkout for the user and returns the URL to send them to.
	Start(ctx context.Context, userID uuid.UUID) (string, error)

	// Verify confirms a completed checkout and extends the customer's
	// subscription. Verifying the same reference twice extends it once.
	Verify(ctx context.Context, reference string) (*SubscriptionResult, error)
}

// SubscriptionServiceImpl implements SubscriptionService.
type SubscriptionServiceImpl struct {
	users       store.UserStore
	payments    store.PaymentStore
	txRunner    store.TxRunner
	provider    PaymentProvider
	price       domain.Price
	duration    time.Duration
	callbackURL string
	now         func() time.Time
	logger      *slog.Logger
}

var _ SubscriptionService = (*SubscriptionServiceImpl)(nil)

// NewSubscriptionService creates a SubscriptionService. baseURL is the public
// address of this server; the provider redirects to {baseURL}/verify.
func NewSubscriptionService(
	users store.UserStore,
	payments store.PaymentStore,
	txRunner store.TxRunner,
	provider PaymentProvider,
	price domain.Price,
	subscriptionDays int,
	baseURL string,
	logger *slog.Logger,
) *SubscriptionServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionServiceImpl{
		users:       users,
		payments:    payments,
		txRunner:    txRunner,
		provider:    provider,
		price:       price,
		duration:    time.Duration(subscriptionDays) * 24 * time.Hour,
		callbackURL: strings.TrimRight(baseURL, "/") + "/verify",
		now:         time.Now,
		logger:      logger.With("component", "subscription_service"),
	}
}

// WithClock replaces the time source. It is intended for tests.
func (s *SubscriptionServiceImpl) WithClock(now func() time.Time) *SubscriptionServiceImpl {
	s.now = now
	return s
}

// Start implements SubscriptionService.
func (s *SubscriptionServiceImpl) Start(ctx context.Context, userID uuid.UUID) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("user_id", userID)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	checkout, err := s.provider.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       user.Email,
		AmountMinor: s.price.MinorUnits(),
		Currency:    s.price.Currency,
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		log.Warn("failed to start checkout", "error", err)
		return "", err
	}

	log.Info("checkout started", "reference", checkout.Reference)
	return checkout.AuthorizationURL, nil
}

// Verify implements SubscriptionService.
func (s *SubscriptionServiceImpl) Verify(ctx context.Context, reference string) (*SubscriptionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("reference", reference)

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrMissingReference
	}

	tx, err := s.provider.VerifyTransaction(ctx, reference)
	if err != nil {
		log.Warn("payment verification failed", "error", err)
		return nil, err
	}
	if !tx.Successful() {
		log.Info("payment not successful", "status", tx.Status)
		return nil, fmt.Errorf("%w: status %q", ErrPaymentNotSuccessful, tx.Status)
	}
	if tx.AmountMinor != s.price.MinorUnits() || !strings.EqualFold(tx.Currency, s.price.Currency) {
		log.Warn("payment amount mismatch",
			"amount_minor", tx.AmountMinor,
			"currency", tx.Currency)
		return nil, fmt.Errorf("%w: paid %d %s", ErrPaymentMismatch, tx.AmountMinor, tx.Currency)
	}

	user, err := s.users.GetByEmail(ctx, tx.CustomerEmail)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("payment from unknown customer")
			return nil, fmt.Errorf("%w: unknown customer", ErrPaymentMismatch)
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	now := s.now().UTC()
	paidAt := tx.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}
	var until time.Time
	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, dbTx *sql.Tx) error {
		payment := domain.NewPayment(tx.Reference, user.ID, tx.AmountMinor, s.price.Currency, paidAt)
		if err := s.payments.WithTx(dbTx).Create(ctx, payment); err != nil {
			return err
		}
		var extendErr error
		until, extendErr = s.users.WithTx(dbTx).ExtendSubscription(ctx, user.ID, now, s.duration)
		return extendErr
	})
	if errors.Is(err, store.ErrPaymentExists) {
		log.Info("payment already applied", "user_id", user.ID)
		result := &SubscriptionResult{UserID: user.ID, AlreadyApplied: true}
		if user.SubscribedUntil != nil {
			result.SubscribedUntil = *user.SubscribedUntil
		}
		return result, nil
	}
	if err != nil {
		log.Error("failed to apply subscription", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to apply subscription: %w", err)
	}

	log.Info("subscription extended", "user_id", user.ID, "subscribed_until", until)
	return &SubscriptionResult{UserID: user.ID, SubscribedUntil: until}, nil
}
