package mocks

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/service/auth"
)

// MockJWTService implements auth.JWTService. Without function fields it
// returns Token/RefreshToken and Claims with the configured errors.
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	Token        string
	RefreshToken string
	Claims       *auth.Claims
	Err          error
	ValidateErr  error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// GenerateRefreshToken implements auth.JWTService.
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	return m.RefreshToken, m.Err
}

// ValidateRefreshToken implements auth.JWTService.
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// ErrPasswordMismatch is returned by MockPasswords when ShouldSucceed is false.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswords implements auth.PasswordVerifier and auth.PasswordHasher.
// Hash prefixes the password with "hashed:"; Compare succeeds when
// ShouldSucceed is set.
type MockPasswords struct {
	ShouldSucceed bool
	HashErr       error

	CompareFn func(hashedPassword, password string) error

	CompareCallCount int
	LastHashed       string
}

var (
	_ auth.PasswordVerifier = (*MockPasswords)(nil)
	_ auth.PasswordHasher   = (*MockPasswords)(nil)
)

// Compare implements auth.PasswordVerifier.
func (m *MockPasswords) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}

// Hash implements auth.PasswordHasher.
func (m *MockPasswords) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	m.LastHashed = password
	return "hashed:" + password, nil
}
