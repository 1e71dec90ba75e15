package calculation

import (
	"context"
	"sync"

	"github.com/rpgo/fiscal-engine/internal/domain"
	money "github.com/rpgo/fiscal-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// maxParallelPeriods bounds the goroutines used by CalculatePeriods
const maxParallelPeriods = 8

// TaxEngine computes per-period results for one validated configuration.
// It holds no mutable state and is safe for concurrent use.
type TaxEngine struct {
	Config   *domain.Configuration
	Brackets *BracketTaxCalculator
	Logger   Logger
}

// NewTaxEngine validates cfg and prepares the bracket calculator.
// A malformed configuration is reported here, before any computation.
func NewTaxEngine(cfg *domain.Configuration) (*TaxEngine, error) {
	if err := ValidateConfiguration(cfg); err != nil {
		return nil, err
	}
	brackets, err := NewBracketTaxCalculator(cfg.Brackets)
	if err != nil {
		return nil, err
	}
	return &TaxEngine{Config: cfg, Brackets: brackets, Logger: NopLogger{}}, nil
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *TaxEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Calculate derives the taxable base, bracket tax and VAT balance for one period.
//
// Negative money inputs are clamped to zero. Under the exempt regime the
// bracket and VAT steps are skipped entirely.
func (e *TaxEngine) Calculate(f domain.PeriodFigures) domain.TaxResult {
	f = e.clampFigures(f)

	rule, err := ruleFor(e.Config.Regime)
	if err != nil {
		// unreachable after ValidateConfiguration
		e.Logger.Errorf("period %s: %v", f.PeriodID, err)
		return domain.TaxResult{VATNet: domain.VATNet{Direction: domain.VATPayable}}
	}
	base := rule(f.GrossIncome, f.DeductibleExpense, e.Config)
	operating := f.GrossIncome.Sub(f.DeductibleExpense)

	if e.Config.Regime == domain.RegimeExempt {
		return domain.TaxResult{
			TaxableBase: decimal.Zero,
			BracketTax:  decimal.Zero,
			VATNet:      domain.VATNet{Amount: decimal.Zero, Direction: domain.VATPayable},
			TotalTaxes:  decimal.Zero,
			NetIncome:   operating,
		}
	}

	tax := e.Brackets.Calculate(base)
	vat := NetVAT(f.VATCollected, f.VATDeductible)
	effective := decimal.Zero
	if base.IsPositive() {
		effective = tax.Div(base).Round(4)
	}
	return domain.TaxResult{
		TaxableBase:   base,
		BracketTax:    tax,
		VATNet:        vat,
		TotalTaxes:    tax.Add(vat.Payable()),
		NetIncome:     operating.Sub(tax),
		EffectiveRate: effective,
	}
}

// CalculatePeriods computes every period concurrently; results keep input order.
// The context is checked before work is dispatched since no single period blocks.
func (e *TaxEngine) CalculatePeriods(ctx context.Context, figures []domain.PeriodFigures) ([]domain.PeriodResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]domain.PeriodResult, len(figures))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxParallelPeriods)

	for i := range figures {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx] = domain.PeriodResult{Figures: figures[idx], Result: e.Calculate(figures[idx])}
		}(i)
	}
	wg.Wait()
	return results, nil
}

// Summarize computes the periods and aggregates them into the year's summary
func (e *TaxEngine) Summarize(ctx context.Context, year int, figures []domain.PeriodFigures) (domain.AnnualSummary, error) {
	results, err := e.CalculatePeriods(ctx, figures)
	if err != nil {
		return domain.AnnualSummary{}, err
	}
	return Aggregate(year, results), nil
}

// FiguresFromGross builds period figures from VAT-inclusive income and expense,
// extracting output VAT from income and input VAT from the VAT-bearing share of expense.
func (e *TaxEngine) FiguresFromGross(periodID string, grossIncome, grossExpense decimal.Decimal) domain.PeriodFigures {
	rate := e.Config.VATRateKind.Rate()
	collected := ExtractVAT(grossIncome, rate)
	deductible := DeductibleVAT(grossExpense, rate, e.Config.VATBearingFraction())
	return domain.PeriodFigures{
		PeriodID:          periodID,
		GrossIncome:       money.NonNegative(grossIncome).Sub(collected),
		DeductibleExpense: money.NonNegative(grossExpense).Sub(deductible),
		VATCollected:      collected,
		VATDeductible:     deductible,
	}
}

func (e *TaxEngine) clampFigures(f domain.PeriodFigures) domain.PeriodFigures {
	clamp := func(name string, d decimal.Decimal) decimal.Decimal {
		if d.IsNegative() {
			e.Logger.Warnf("period %s: negative %s %s treated as zero", f.PeriodID, name, d)
			return decimal.Zero
		}
		return d
	}
	f.GrossIncome = clamp("gross income", f.GrossIncome)
	f.DeductibleExpense = clamp("deductible expense", f.DeductibleExpense)
	f.VATCollected = clamp("VAT collected", f.VATCollected)
	f.VATDeductible = clamp("VAT deductible", f.VATDeductible)
	if f.Transactions < 0 {
		f.Transactions = 0
	}
	return f
}
