package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with fiscal precision (cents, banker's rounding)
type Money struct {
	decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Round rounds the money amount to cents using banker's rounding
func (m Money) Round() Money {
	return Money{m.Decimal.RoundBank(2)}
}

// NonNegative clamps a negative decimal to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Format renders the amount with thousands separators and the euro sign, e.g. "12,450.00 €"
func (m Money) Format() string {
	s := m.Decimal.Abs().StringFixedBank(2)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if m.Decimal.IsNegative() && !m.Round().IsZero() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	b.WriteString(" €")
	return b.String()
}

// FormatPercent renders a fraction (0.19) as a percentage string ("19.00%")
func FormatPercent(fraction decimal.Decimal) string {
	return fraction.Mul(hundred).StringFixed(2) + "%"
}
