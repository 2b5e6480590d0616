package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/studygen/internal/config"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/platform/paystack"
	"github.com/phrazzld/studygen/internal/platform/postgres"
	"github.com/phrazzld/studygen/internal/service"
	"github.com/phrazzld/studygen/internal/service/auth"
	"github.com/phrazzld/studygen/internal/store"
)

// application holds the server's dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore           store.UserStore
	jwtService          auth.JWTService
	passwordVerifier    auth.PasswordVerifier
	passwordHasher      auth.PasswordHasher
	generationService   service.GenerationService
	subscriptionService service.SubscriptionService
}

// newApplication wires stores, the generator, the payment client and the services.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewPostgresUserStore(db, logger)
	flashcardStore := postgres.NewPostgresFlashcardStore(db, logger)
	paymentStore := postgres.NewPostgresPaymentStore(db, logger)
	txRunner := store.NewDBTxRunner(db)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwords := auth.NewBcryptVerifier(cfg.Auth.BCryptCost)

	generator, err := newGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, err
	}

	price, err := domain.NewPrice(cfg.Billing.Price, cfg.Billing.Currency, cfg.Billing.CurrencyLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subscription price: %w", err)
	}

	payments := paystack.NewClient(cfg.Billing.PaystackSecretKey, cfg.Billing.PaystackBaseURL, logger)

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwords,
		passwordHasher:   passwords,
		generationService: service.NewGenerationService(
			userStore,
			flashcardStore,
			txRunner,
			generator,
			cfg.Billing.FreePromptLimit,
			price,
			logger,
		),
		subscriptionService: service.NewSubscriptionService(
			userStore,
			paymentStore,
			txRunner,
			payments,
			price,
			cfg.Billing.SubscriptionDays,
			cfg.Server.BaseURL,
			logger,
		),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
		return
	}
	app.logger.Info("database connection closed")
}
