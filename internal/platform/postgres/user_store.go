package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

const userColumns = `id, email, hashed_password, prompts_used, subscribed_until, created_at, updated_at`

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return store.NewStoreError("user", "create", "password must be hashed before storing", store.ErrInvalidEntity)
	}
	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create", slog.String("error", err.Error()))
		return errors.Join(store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, hashed_password, prompts_used, subscribed_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Email, user.HashedPassword, user.PromptsUsed, user.SubscribedUntil, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return MapUniqueViolation(err, store.ErrEmailExists)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	// The plaintext password is no longer needed once the row exists.
	user.Password = ""

	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	var subscribedUntil sql.NullTime
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.PromptsUsed,
		&subscribedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if subscribedUntil.Valid {
		until := subscribedUntil.Time.UTC()
		user.SubscribedUntil = &until
	}
	return &user, nil
}

// IncrementPromptsUsed implements store.UserStore.IncrementPromptsUsed
//
// The quota check and the increment happen in one statement so concurrent
// requests cannot overdraw the free allowance.
func (s *PostgresUserStore) IncrementPromptsUsed(
	ctx context.Context,
	id uuid.UUID,
	limit int,
	now time.Time,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var used int
	err := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET prompts_used = prompts_used + 1, updated_at = $3
		WHERE id = $1
		  AND (prompts_used < $2 OR (subscribed_until IS NOT NULL AND subscribed_until > $3))
		RETURNING prompts_used
	`, id, limit, now.UTC()).Scan(&used)
	if err == nil {
		log.Debug("prompt recorded", slog.String("user_id", id.String()), slog.Int("prompts_used", used))
		return used, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to increment prompts used",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return 0, MapError(err)
	}

	// No row updated: either the user is gone or the quota is spent.
	if _, getErr := s.GetByID(ctx, id); getErr != nil {
		return 0, getErr
	}
	log.Info("prompt limit reached", slog.String("user_id", id.String()))
	return 0, store.ErrPromptLimitReached
}

// ExtendSubscription implements store.UserStore.ExtendSubscription
// GREATEST skips a NULL expiry, so a first subscription starts at now.
func (s *PostgresUserStore) ExtendSubscription(
	ctx context.Context,
	id uuid.UUID,
	now time.Time,
	d time.Duration,
) (time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var until time.Time
	err := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET subscribed_until = GREATEST(subscribed_until, $2) + make_interval(secs => $3),
		    updated_at = $2
		WHERE id = $1
		RETURNING subscribed_until
	`, id, now.UTC(), d.Seconds()).Scan(&until)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, store.ErrUserNotFound
	}
	if err != nil {
		log.Error("failed to extend subscription",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return time.Time{}, MapError(err)
	}

	log.Info("subscription extended",
		slog.String("user_id", id.String()),
		slog.Time("subscribed_until", until))
	return until.UTC(), nil
}
