package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword    = errors.New("password cannot be empty")
)

const (
	minPasswordLength = 12
	maxPasswordLength = 72 // bcrypt limit
)

// User is a registered account. Free-tier users may generate a limited number
// of times; subscribers are unlimited until SubscribedUntil.
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Password        string     `json:"-"` // plaintext, only set during registration
	HashedPassword  string     `json:"-"`
	PromptsUsed     int        `json:"prompts_used"`
	SubscribedUntil *time.Time `json:"subscribed_until,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewUser creates a new User with the given email and password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail lowercases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < minPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > maxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// IsSubscribed reports whether the user has an active subscription at now.
func (u *User) IsSubscribed(now time.Time) bool {
	return u.SubscribedUntil != nil && u.SubscribedUntil.After(now)
}

// CanGenerate reports whether the user may run another generation.
func (u *User) CanGenerate(now time.Time, freeLimit int) bool {
	return u.IsSubscribed(now) || u.PromptsUsed < freeLimit
}

// RemainingPrompts returns how many free generations are left, never negative.
func (u *User) RemainingPrompts(freeLimit int) int {
	return max(freeLimit-u.PromptsUsed, 0)
}

// SubscriptionExtendedBy returns the new expiry when a subscription of length d
// is bought at now. Time left on an active subscription is carried over.
func (u *User) SubscriptionExtendedBy(now time.Time, d time.Duration) time.Time {
	start := now
	if u.IsSubscribed(now) {
		start = *u.SubscribedUntil
	}
	return start.Add(d).UTC()
}
