package calculation

import (
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Aggregate rolls a year's period results into an annual summary.
//
// Best and worst periods are picked by net profit; ties keep the earliest
// period in input order. An empty input yields a zero summary with nil
// best/worst so callers can render "no data yet" without an error path.
func Aggregate(year int, periods []domain.PeriodResult) domain.AnnualSummary {
	summary := domain.AnnualSummary{
		Year:               year,
		PeriodCount:        len(periods),
		TotalGrossIncome:   decimal.Zero,
		TotalExpenses:      decimal.Zero,
		TotalTaxableBase:   decimal.Zero,
		TotalBracketTax:    decimal.Zero,
		TotalVATCollected:  decimal.Zero,
		TotalVATDeducted:   decimal.Zero,
		TotalVATNet:        decimal.Zero,
		TotalTaxes:         decimal.Zero,
		TotalNetIncome:     decimal.Zero,
		AverageGrossIncome: decimal.Zero,
		AverageNetIncome:   decimal.Zero,
		AverageTaxes:       decimal.Zero,
		Quarters:           []domain.QuarterSummary{},
		Periods:            append([]domain.PeriodResult{}, periods...),
	}
	if len(periods) == 0 {
		return summary
	}

	bestIdx, worstIdx := 0, 0
	for i, p := range periods {
		summary.TotalGrossIncome = summary.TotalGrossIncome.Add(p.Figures.GrossIncome)
		summary.TotalExpenses = summary.TotalExpenses.Add(p.Figures.DeductibleExpense)
		summary.TotalTaxableBase = summary.TotalTaxableBase.Add(p.Result.TaxableBase)
		summary.TotalBracketTax = summary.TotalBracketTax.Add(p.Result.BracketTax)
		summary.TotalVATCollected = summary.TotalVATCollected.Add(p.Figures.VATCollected)
		summary.TotalVATDeducted = summary.TotalVATDeducted.Add(p.Figures.VATDeductible)
		summary.TotalVATNet = summary.TotalVATNet.Add(p.Result.VATNet.Signed())
		summary.TotalTaxes = summary.TotalTaxes.Add(p.Result.TotalTaxes)
		summary.TotalNetIncome = summary.TotalNetIncome.Add(p.Result.NetIncome)
		summary.TotalTransactions += p.Figures.Transactions

		if p.NetProfit().GreaterThan(periods[bestIdx].NetProfit()) {
			bestIdx = i
		}
		if p.NetProfit().LessThan(periods[worstIdx].NetProfit()) {
			worstIdx = i
		}
	}

	n := decimal.NewFromInt(int64(len(periods)))
	summary.AverageGrossIncome = summary.TotalGrossIncome.Div(n).Round(2)
	summary.AverageNetIncome = summary.TotalNetIncome.Div(n).Round(2)
	summary.AverageTaxes = summary.TotalTaxes.Div(n).Round(2)

	best, worst := periods[bestIdx], periods[worstIdx]
	summary.BestPeriod = &best
	summary.WorstPeriod = &worst
	summary.Quarters = RollupQuarters(periods)
	return summary
}

// RollupQuarters groups periods into calendar quarters, in quarter order.
// Periods whose id does not identify a month or quarter are left out.
func RollupQuarters(periods []domain.PeriodResult) []domain.QuarterSummary {
	var byQuarter [4]*domain.QuarterSummary
	for _, p := range periods {
		q := QuarterOfPeriod(p.Figures.PeriodID)
		if q == 0 {
			continue
		}
		qs := byQuarter[q-1]
		if qs == nil {
			qs = &domain.QuarterSummary{
				Quarter:     q,
				GrossIncome: decimal.Zero,
				Expenses:    decimal.Zero,
				BracketTax:  decimal.Zero,
				VATNet:      decimal.Zero,
				NetIncome:   decimal.Zero,
			}
			byQuarter[q-1] = qs
		}
		qs.PeriodCount++
		qs.GrossIncome = qs.GrossIncome.Add(p.Figures.GrossIncome)
		qs.Expenses = qs.Expenses.Add(p.Figures.DeductibleExpense)
		qs.BracketTax = qs.BracketTax.Add(p.Result.BracketTax)
		qs.VATNet = qs.VATNet.Add(p.Result.VATNet.Signed())
		qs.NetIncome = qs.NetIncome.Add(p.Result.NetIncome)
		qs.Transactions += p.Figures.Transactions
	}
	out := []domain.QuarterSummary{}
	for _, qs := range byQuarter {
		if qs != nil {
			out = append(out, *qs)
		}
	}
	return out
}

// QuarterOfPeriod reads the quarter from ids such as "2024-Q3", "Q3", "2024-07"
// or "2024-07-15". It returns 0 when the id names no month or quarter.
func QuarterOfPeriod(id string) int {
	id = strings.ToUpper(strings.TrimSpace(id))
	parts := strings.Split(id, "-")
	for _, part := range parts {
		if len(part) == 2 && part[0] == 'Q' {
			if q, err := strconv.Atoi(part[1:]); err == nil && q >= 1 && q <= 4 {
				return q
			}
			return 0
		}
	}
	if len(parts) >= 2 && len(parts[0]) == 4 {
		month, err := strconv.Atoi(parts[1])
		if err == nil && month >= 1 && month <= 12 {
			return dateutil.QuarterOf(time.Month(month))
		}
	}
	return 0
}
