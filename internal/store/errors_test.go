package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantNotFound  bool
		wantDuplicate bool
	}{
		{"user not found", ErrUserNotFound, true, false},
		{"wrapped user not found", fmt.Errorf("lookup: %w", ErrUserNotFound), true, false},
		{"email exists", ErrEmailExists, false, true},
		{"payment exists", ErrPaymentExists, false, true},
		{"limit reached", ErrPromptLimitReached, false, false},
		{"other", errors.New("boom"), false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantNotFound, IsNotFoundError(tc.err))
			assert.Equal(t, tc.wantDuplicate, IsDuplicateError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("user", "create", "insert failed", cause)

	assert.Equal(t, "create operation on user failed: insert failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("payment", "create", "duplicate reference", nil)
	assert.Equal(t, "create operation on payment failed: duplicate reference", bare.Error())
}
