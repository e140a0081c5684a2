package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func ZeroMoney(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

// Add fails when the currencies differ; no conversion is ever attempted.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch %s != %s: %w", m.Currency, other.Currency, ErrInvalidInput)
	}

	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Mul(quantity int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(quantity)), Currency: m.Currency}
}

func (m Money) Validate() error {
	if m.Amount.IsNegative() {
		return fmt.Errorf("amount %s is negative: %w", m.Amount, ErrInvalidInput)
	}

	if !m.Amount.Equal(m.Amount.Round(2)) {
		return fmt.Errorf("amount %s has more than 2 decimal places: %w", m.Amount, ErrInvalidInput)
	}

	return nil
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}
