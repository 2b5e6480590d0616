package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitsPerMajor is the subunit factor for the supported currencies
// (cents, kobo, KES cents).
var minorUnitsPerMajor = decimal.NewFromInt(100)

// Price is an amount in major currency units, e.g. 299 KES.
type Price struct {
	Amount   decimal.Decimal
	Currency string // ISO 4217 code sent to the payment provider
	Label    string // human-facing prefix, e.g. "Ksh"
}

// NewPrice parses amount (e.g. "299" or "299.50").
func NewPrice(amount, currency, label string) (Price, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Price{}, fmt.Errorf("%w: invalid price %q: %v", ErrValidation, amount, err)
	}
	if !d.IsPositive() {
		return Price{}, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	return Price{Amount: d, Currency: currency, Label: label}, nil
}

// MinorUnits returns the amount in the currency's smallest unit, as payment
// providers expect it.
func (p Price) MinorUnits() int64 {
	return p.Amount.Mul(minorUnitsPerMajor).Round(0).IntPart()
}

// String renders the price for users, e.g. "Ksh 299".
func (p Price) String() string {
	return p.Label + " " + p.Amount.String()
}
