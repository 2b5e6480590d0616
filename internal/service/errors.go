package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/studygen/internal/domain"
)

// Service errors callers check with errors.Is. The API layer maps each to a
// status code.
var (
	// ErrQuotaExceeded is matched by every QuotaError.
	ErrQuotaExceeded = errors.New("prompt quota exceeded")

	// ErrUserNotFound is returned when the authenticated user no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrPaymentNotSuccessful is returned when the provider reports that the
	// customer was not charged.
	ErrPaymentNotSuccessful = errors.New("payment was not successful")

	// ErrPaymentMismatch is returned when a verified payment does not match
	// the subscription price or any known customer.
	ErrPaymentMismatch = errors.New("payment does not match subscription")

	// ErrMissingReference is returned when verification is requested without
	// a transaction reference.
	ErrMissingReference = errors.New("missing transaction reference")
)

// QuotaError reports that a free user has used every free prompt. Its
// message tells the user what the subscription costs.
type QuotaError struct {
	Price domain.Price
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("Limit reached. Please subscribe for 1 month at %s.", e.Price)
}

// Is makes errors.Is(err, ErrQuotaExceeded) true for any QuotaError.
func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
