package billing

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (cents). Balances and prices never use floating point.
type Money int64

const minorUnitExp = -2

var (
	ErrMoneyPrecision = errors.New("amount has more than 2 decimal places")
	ErrMoneyOverflow  = errors.New("amount out of range")
	ErrMoneyNegative  = errors.New("amount must not be negative")
)

// MoneyFromDecimal converts an exact decimal amount into minor units.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	scaled := d.Shift(-minorUnitExp)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, ErrMoneyPrecision
	}
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || scaled.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, ErrMoneyOverflow
	}
	return Money(scaled.IntPart()), nil
}

// ParseMoney parses strings such as "12", "12.5" or "12.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return MoneyFromDecimal(d)
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), minorUnitExp)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) IsPositive() bool { return m > 0 }

// Add returns m+o, failing instead of wrapping around.
func (m Money) Add(o Money) (Money, error) {
	if (o > 0 && m > math.MaxInt64-o) || (o < 0 && m < math.MinInt64-o) {
		return 0, ErrMoneyOverflow
	}
	return m + o, nil
}

// Sub returns m-o and refuses to produce a negative result.
func (m Money) Sub(o Money) (Money, error) {
	if o < 0 || m < o {
		return 0, ErrMoneyNegative
	}
	return m - o, nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
