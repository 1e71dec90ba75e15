package calculation

import (
	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// ValidateConfiguration checks everything the engine needs before it computes:
// a known regime and VAT kind, a well-formed bracket table, coefficients in
// [0,1] and positive reminder windows.
func ValidateConfiguration(cfg *domain.Configuration) error {
	if cfg == nil {
		return domain.NewConfigError("configuration", "is nil")
	}
	if !cfg.Regime.Valid() {
		return domain.NewConfigError("regime", "unknown regime %d", int(cfg.Regime))
	}
	if !cfg.VATRateKind.Valid() {
		return domain.NewConfigError("vat_rate_kind", "unknown VAT rate kind %d", int(cfg.VATRateKind))
	}
	if err := ValidateBrackets(cfg.Brackets); err != nil {
		return err
	}

	coefficients := []struct {
		field string
		value *decimal.Decimal
	}{
		{"reduction_coefficient", cfg.ReductionCoefficient},
		{"module_coefficient", cfg.ModuleCoefficient},
		{"vat_bearing_expense_fraction", cfg.VATBearingExpenseFraction},
	}
	one := decimal.NewFromInt(1)
	for _, c := range coefficients {
		if c.value == nil {
			continue
		}
		if c.value.IsNegative() {
			return domain.NewConfigError(c.field, "must not be negative, got %s", *c.value)
		}
		if c.value.GreaterThan(one) {
			return domain.NewConfigError(c.field, "must be a fraction no greater than 1, got %s", *c.value)
		}
	}

	if w := cfg.ReminderWindowDays; w != nil {
		if w.Quarterly < 0 || w.Annual < 0 {
			return domain.NewConfigError("reminder_window_days", "windows must be positive, got quarterly=%d annual=%d", w.Quarterly, w.Annual)
		}
	}
	if cfg.ReminderLookaheadDays < 0 {
		return domain.NewConfigError("reminder_lookahead_days", "must be positive, got %d", cfg.ReminderLookaheadDays)
	}
	return nil
}
