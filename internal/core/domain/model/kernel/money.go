package kernel

import (
	"errors"
	"fmt"

	"eshop/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every amount.
const MoneyScale = 2

var ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney, MoneyFromString or ZeroMoney")

// Money is an exact, non-negative decimal amount rounded half-up to
// MoneyScale places. Arithmetic never goes through floating point.
type Money struct {
	amount      decimal.Decimal
	constructed bool
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, "unbounded")
	}
	return Money{amount: amount.Round(MoneyScale), constructed: true}, nil
}

// MoneyFromString parses a decimal literal such as "9.99".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a decimal: %w", s, err))
	}
	return NewMoney(d)
}

// MustMoney is MoneyFromString for literals known to be valid.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero, constructed: true}
}

func (m Money) Validate() error {
	if !m.constructed {
		return ErrMoneyIsNotConstructed
	}
	return nil
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), constructed: true}
}

// Times multiplies by a quantity. Quantities are validated positive by the
// aggregates before they get here.
func (m Money) Times(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))).Round(MoneyScale), constructed: true}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := MoneyFromString(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
