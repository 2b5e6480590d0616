package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	p, err := NewPrice("299", "KES", "Ksh")
	require.NoError(t, err)
	assert.Equal(t, int64(29900), p.MinorUnits())
	assert.Equal(t, "Ksh 299", p.String())

	p, err = NewPrice("4.99", "USD", "$")
	require.NoError(t, err)
	assert.Equal(t, int64(499), p.MinorUnits())

	_, err = NewPrice("free", "KES", "Ksh")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewPrice("0", "KES", "Ksh")
	assert.ErrorIs(t, err, ErrValidation)
}
