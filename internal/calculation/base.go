package calculation

import (
	"fmt"

	"github.com/rpgo/fiscal-engine/internal/domain"
	money "github.com/rpgo/fiscal-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// baseRule derives a taxable base from non-negative income and expense
type baseRule func(income, expense decimal.Decimal, cfg *domain.Configuration) decimal.Decimal

// ruleFor maps each regime to its rule. Every declared regime must have a case.
func ruleFor(regime domain.FiscalRegime) (baseRule, error) {
	switch regime {
	case domain.RegimeGeneral:
		return generalBase, nil
	case domain.RegimeSimplified:
		return simplifiedBase, nil
	case domain.RegimeObjectiveEstimate:
		return objectiveEstimateBase, nil
	case domain.RegimeExempt:
		return exemptBase, nil
	}
	return nil, fmt.Errorf("%w: %d", domain.ErrUnknownRegime, int(regime))
}

// General: income minus expense, floored at zero
func generalBase(income, expense decimal.Decimal, _ *domain.Configuration) decimal.Decimal {
	return money.NonNegative(income.Sub(expense))
}

// Simplified: the general base reduced by the configured coefficient
func simplifiedBase(income, expense decimal.Decimal, cfg *domain.Configuration) decimal.Decimal {
	keep := decimal.NewFromInt(1).Sub(cfg.Reduction())
	return money.NonNegative(generalBase(income, expense, cfg).Mul(keep))
}

// ObjectiveEstimate: a presumed margin on income; expenses are ignored
func objectiveEstimateBase(income, _ decimal.Decimal, cfg *domain.Configuration) decimal.Decimal {
	return money.NonNegative(income.Mul(cfg.Module()))
}

func exemptBase(_, _ decimal.Decimal, _ *domain.Configuration) decimal.Decimal {
	return decimal.Zero
}

// ResolveTaxableBase applies cfg.Regime's rule to income and expense.
// Negative inputs are treated as zero; the result is never negative.
func ResolveTaxableBase(income, expense decimal.Decimal, cfg *domain.Configuration) (decimal.Decimal, error) {
	if cfg == nil {
		cfg = domain.DefaultConfiguration()
	}
	rule, err := ruleFor(cfg.Regime)
	if err != nil {
		return decimal.Zero, err
	}
	return rule(money.NonNegative(income), money.NonNegative(expense), cfg), nil
}
