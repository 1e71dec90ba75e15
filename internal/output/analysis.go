package output

import (
	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// Highlights are the headline figures drawn from an annual summary.
type Highlights struct {
	BestPeriodID  string
	BestNet       decimal.Decimal
	WorstPeriodID string
	WorstNet      decimal.Decimal
	Spread        decimal.Decimal
	VATPosition   domain.VATDirection
	EffectiveRate decimal.Decimal
}

// AnalyzeSummary extracts the best/worst spread, the overall VAT position and
// the year's effective bracket rate. Extracted from console logic for testability.
func AnalyzeSummary(s *domain.AnnualSummary) Highlights {
	h := Highlights{VATPosition: domain.VATPayable}
	if s == nil {
		return h
	}
	if s.TotalVATNet.IsNegative() {
		h.VATPosition = domain.VATRefundable
	}
	if s.TotalTaxableBase.IsPositive() {
		h.EffectiveRate = s.TotalBracketTax.Div(s.TotalTaxableBase).Round(4)
	}
	if s.BestPeriod != nil && s.WorstPeriod != nil {
		h.BestPeriodID = s.BestPeriod.Figures.PeriodID
		h.BestNet = s.BestPeriod.NetProfit()
		h.WorstPeriodID = s.WorstPeriod.Figures.PeriodID
		h.WorstNet = s.WorstPeriod.NetProfit()
		h.Spread = h.BestNet.Sub(h.WorstNet)
	}
	return h
}
