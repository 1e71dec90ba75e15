package calculation

import (
	"github.com/rpgo/fiscal-engine/internal/domain"
	money "github.com/rpgo/fiscal-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// NetVAT offsets VAT collected on sales against deductible VAT on purchases.
// The result is always a non-negative amount with a direction; a zero balance
// is reported as payable. Negative inputs are treated as zero.
func NetVAT(collected, deductible decimal.Decimal) domain.VATNet {
	delta := money.NonNegative(collected).Sub(money.NonNegative(deductible))
	if delta.IsNegative() {
		return domain.VATNet{Amount: delta.Abs(), Direction: domain.VATRefundable}
	}
	return domain.VATNet{Amount: delta, Direction: domain.VATPayable}
}

// ExtractVAT returns the VAT embedded in a VAT-inclusive amount:
// gross - gross/(1+rate), rounded to cents.
func ExtractVAT(gross, rate decimal.Decimal) decimal.Decimal {
	gross = money.NonNegative(gross)
	if gross.IsZero() || !rate.IsPositive() {
		return decimal.Zero
	}
	net := gross.Div(decimal.NewFromInt(1).Add(rate))
	return gross.Sub(net).RoundBank(2)
}

// DeductibleVAT extracts recoverable VAT from expenses, assuming only
// bearingFraction of them are VAT-bearing purchases.
func DeductibleVAT(expense, rate, bearingFraction decimal.Decimal) decimal.Decimal {
	return ExtractVAT(money.NonNegative(expense).Mul(bearingFraction), rate)
}
