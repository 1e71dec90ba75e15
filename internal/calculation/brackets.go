package calculation

import (
	"sort"

	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// BracketTaxCalculator applies a progressive rate table to a taxable base.
// The table is validated and sorted once, at construction.
type BracketTaxCalculator struct {
	Brackets []domain.TaxBracket
}

// NewBracketTaxCalculator validates the table and keeps a sorted copy
func NewBracketTaxCalculator(brackets []domain.TaxBracket) (*BracketTaxCalculator, error) {
	if err := ValidateBrackets(brackets); err != nil {
		return nil, err
	}
	return &BracketTaxCalculator{Brackets: SortBrackets(brackets)}, nil
}

// Calculate returns the progressive tax on base
func (c *BracketTaxCalculator) Calculate(base decimal.Decimal) decimal.Decimal {
	return bracketTax(base, c.Brackets)
}

// CalculateBracketTax sorts the brackets ascending by lower bound and taxes the
// slice of base that falls inside each one. A negative base, or a base below
// the first lower bound, yields zero. It does not validate the table; use
// NewBracketTaxCalculator when the table comes from outside.
func CalculateBracketTax(base decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	return bracketTax(base, SortBrackets(brackets))
}

func bracketTax(base decimal.Decimal, sorted []domain.TaxBracket) decimal.Decimal {
	total := decimal.Zero
	if !base.IsPositive() {
		return total
	}
	for _, bracket := range sorted {
		if base.LessThanOrEqual(bracket.Lower) {
			break
		}
		top := base
		if !bracket.OpenEnded() {
			top = decimal.Min(base, *bracket.Upper)
		}
		inBracket := top.Sub(bracket.Lower)
		if inBracket.IsPositive() {
			total = total.Add(inBracket.Mul(bracket.Rate))
		}
		if bracket.OpenEnded() || base.LessThanOrEqual(*bracket.Upper) {
			break
		}
	}
	return total
}

// SortBrackets returns a copy of brackets ordered by lower bound
func SortBrackets(brackets []domain.TaxBracket) []domain.TaxBracket {
	sorted := append([]domain.TaxBracket(nil), brackets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Lower.LessThan(sorted[j].Lower) })
	return sorted
}

// ValidateBrackets rejects tables that cannot be applied unambiguously:
// negative bounds, inverted bands, rates outside [0,1], overlaps, and an
// open-ended band that is not the highest. An empty table is valid (zero tax).
func ValidateBrackets(brackets []domain.TaxBracket) error {
	one := decimal.NewFromInt(1)
	sorted := SortBrackets(brackets)
	for i, b := range sorted {
		field := "brackets"
		if b.Lower.IsNegative() {
			return domain.NewConfigError(field, "lower bound %s is negative", b.Lower)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return domain.NewConfigError(field, "rate %s for band starting at %s must be between 0 and 1", b.Rate, b.Lower)
		}
		if !b.OpenEnded() && b.Upper.LessThanOrEqual(b.Lower) {
			return domain.NewConfigError(field, "upper bound %s must be above lower bound %s", *b.Upper, b.Lower)
		}
		if b.OpenEnded() && i != len(sorted)-1 {
			return domain.NewConfigError(field, "open-ended band starting at %s must be the highest band", b.Lower)
		}
		if i > 0 {
			prev := sorted[i-1]
			if b.Lower.LessThan(*prev.Upper) {
				return domain.NewConfigError(field, "band starting at %s overlaps band %s-%s", b.Lower, prev.Lower, *prev.Upper)
			}
		}
	}
	return nil
}
