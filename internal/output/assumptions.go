package output

import (
	"fmt"

	"github.com/rpgo/fiscal-engine/internal/domain"
)

// GenerateAssumptions describes the rule set a report was computed with
func GenerateAssumptions(cfg *domain.Configuration) []string {
	if cfg == nil {
		return nil
	}
	lines := []string{
		fmt.Sprintf("Fiscal regime: %s", cfg.Regime),
		fmt.Sprintf("VAT rate: %s (%s)", cfg.VATRateKind, FormatPercentage(cfg.VATRateKind.Rate())),
		fmt.Sprintf("VAT-bearing share of expenses: %s", FormatPercentage(cfg.VATBearingFraction())),
	}
	switch cfg.Regime {
	case domain.RegimeSimplified:
		lines = append(lines, fmt.Sprintf("Simplified reduction on net profit: %s", FormatPercentage(cfg.Reduction())))
	case domain.RegimeObjectiveEstimate:
		lines = append(lines, fmt.Sprintf("Objective-estimate module on income: %s", FormatPercentage(cfg.Module())))
	}
	for _, b := range cfg.Brackets {
		upper := "and above"
		if !b.OpenEnded() {
			upper = "to " + FormatCurrency(*b.Upper)
		}
		lines = append(lines, fmt.Sprintf("Bracket from %s %s: %s", FormatCurrency(b.Lower), upper, FormatPercentage(b.Rate)))
	}
	w := cfg.Windows()
	lines = append(lines, fmt.Sprintf("Reminders open %d days before quarterly and %d days before annual deadlines", w.Quarterly, w.Annual))
	return lines
}
