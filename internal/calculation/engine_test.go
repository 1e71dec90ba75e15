package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	NopLogger
	mu    sync.Mutex
	warns []string
}

func (r *recordingLogger) Warnf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}

func newTestEngine(t *testing.T, regime domain.FiscalRegime) *TaxEngine {
	t.Helper()
	engine, err := NewTaxEngine(&domain.Configuration{
		Regime:      regime,
		VATRateKind: domain.VATStandard,
		Brackets:    threeBandTable(),
	})
	require.NoError(t, err)
	return engine
}

func sampleFigures() domain.PeriodFigures {
	return domain.PeriodFigures{
		PeriodID:          "2024",
		GrossIncome:       decimal.NewFromInt(30000),
		DeductibleExpense: decimal.NewFromInt(10000),
		VATCollected:      decimal.NewFromInt(6300),
		VATDeductible:     decimal.NewFromInt(1470),
	}
}

func TestTaxEngineCalculateGeneral(t *testing.T) {
	engine := newTestEngine(t, domain.RegimeGeneral)
	res := engine.Calculate(sampleFigures())

	assert.True(t, res.TaxableBase.Equal(decimal.NewFromInt(20000)))
	assert.True(t, res.BracketTax.Equal(decimal.NewFromFloat(4177.5)))
	assert.Equal(t, domain.VATPayable, res.VATNet.Direction)
	assert.True(t, res.VATNet.Amount.Equal(decimal.NewFromInt(4830)))
	assert.True(t, res.TotalTaxes.Equal(decimal.NewFromFloat(9007.5)), "total %s", res.TotalTaxes)
	assert.True(t, res.NetIncome.Equal(decimal.NewFromFloat(15822.5)), "net %s", res.NetIncome)
	assert.True(t, res.EffectiveRate.Equal(decimal.NewFromFloat(0.2089)), "effective %s", res.EffectiveRate)
}

func TestTaxEngineRefundableVATNotInTotal(t *testing.T) {
	engine := newTestEngine(t, domain.RegimeGeneral)
	f := sampleFigures()
	f.VATCollected = decimal.NewFromInt(100)
	f.VATDeductible = decimal.NewFromInt(700)

	res := engine.Calculate(f)
	assert.Equal(t, domain.VATRefundable, res.VATNet.Direction)
	assert.True(t, res.VATNet.Amount.Equal(decimal.NewFromInt(600)))
	assert.True(t, res.TotalTaxes.Equal(res.BracketTax))
}

func TestTaxEngineExemptShortCircuits(t *testing.T) {
	engine := newTestEngine(t, domain.RegimeExempt)
	res := engine.Calculate(sampleFigures())

	assert.True(t, res.TaxableBase.IsZero())
	assert.True(t, res.BracketTax.IsZero())
	assert.True(t, res.VATNet.Amount.IsZero())
	assert.True(t, res.TotalTaxes.IsZero())
	assert.True(t, res.NetIncome.Equal(decimal.NewFromInt(20000)))
}

func TestTaxEngineClampsNegativeInputs(t *testing.T) {
	engine := newTestEngine(t, domain.RegimeGeneral)
	logger := &recordingLogger{}
	engine.SetLogger(logger)

	res := engine.Calculate(domain.PeriodFigures{
		PeriodID:          "2024-03",
		GrossIncome:       decimal.NewFromInt(-500),
		DeductibleExpense: decimal.NewFromInt(200),
		VATCollected:      decimal.NewFromInt(-10),
	})
	assert.True(t, res.TaxableBase.IsZero())
	assert.True(t, res.BracketTax.IsZero())
	assert.True(t, res.NetIncome.Equal(decimal.NewFromInt(-200)))
	assert.Len(t, logger.warns, 2)
	assert.Contains(t, logger.warns[0], "2024-03")

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestTaxEngineDeterministic(t *testing.T) {
	engine := newTestEngine(t, domain.RegimeSimplified)
	a := engine.Calculate(sampleFigures())
	b := engine.Calculate(sampleFigures())
	assert.Equal(t, a.TaxableBase.String(), b.TaxableBase.String())
	assert.Equal(t, a.BracketTax.String(), b.BracketTax.String())
	assert.Equal(t, a.TotalTaxes.String(), b.TotalTaxes.String())
	assert.Equal(t, a.NetIncome.String(), b.NetIncome.String())
	assert.Equal(t, a.VATNet.Direction, b.VATNet.Direction)
}

func TestNewTaxEngineRejectsInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  *domain.Configuration
	}{
		{"nil", nil},
		{"unknown regime", &domain.Configuration{Regime: domain.FiscalRegime(9)}},
		{"unknown VAT kind", &domain.Configuration{VATRateKind: domain.VATRateKind(9)}},
		{"negative coefficient", &domain.Configuration{Regime: domain.RegimeSimplified, ReductionCoefficient: decPtr(-0.05)}},
		{"coefficient above one", &domain.Configuration{Regime: domain.RegimeObjectiveEstimate, ModuleCoefficient: decPtr(1.5)}},
		{"negative fraction", &domain.Configuration{VATBearingExpenseFraction: decPtr(-0.7)}},
		{"negative window", &domain.Configuration{ReminderWindowDays: &domain.ReminderWindowDays{Quarterly: -1}}},
		{"negative lookahead", &domain.Configuration{ReminderLookaheadDays: -5}},
		{"overlapping brackets", &domain.Configuration{Brackets: []domain.TaxBracket{
			domain.NewBracket(decimal.Zero, decimal.NewFromInt(100), decimal.NewFromFloat(0.1)),
			domain.NewBracket(decimal.NewFromInt(90), decimal.NewFromInt(200), decimal.NewFromFloat(0.2)),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewTaxEngine(tt.cfg)
			assert.Nil(t, engine)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration), "got %v", err)
		})
	}
}

func TestCalculatePeriodsKeepsOrder(t *testing.T) {
	engine := newTestEngine(t, domain.RegimeGeneral)
	var figures []domain.PeriodFigures
	for m := 1; m <= 12; m++ {
		figures = append(figures, domain.PeriodFigures{
			PeriodID:          fmt.Sprintf("2024-%02d", m),
			GrossIncome:       decimal.NewFromInt(int64(1000 * m)),
			DeductibleExpense: decimal.NewFromInt(200),
		})
	}

	results, err := engine.CalculatePeriods(context.Background(), figures)
	require.NoError(t, err)
	require.Len(t, results, 12)
	for i, r := range results {
		assert.Equal(t, figures[i].PeriodID, r.Figures.PeriodID)
		want := engine.Calculate(figures[i])
		assert.True(t, want.BracketTax.Equal(r.Result.BracketTax))
	}
}

func TestCalculatePeriodsCancelled(t *testing.T) {
	engine := newTestEngine(t, domain.RegimeGeneral)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.CalculatePeriods(ctx, []domain.PeriodFigures{sampleFigures()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFiguresFromGross(t *testing.T) {
	engine := newTestEngine(t, domain.RegimeGeneral)
	f := engine.FiguresFromGross("2024-Q1", decimal.NewFromInt(1210), decimal.NewFromInt(1000))

	assert.Equal(t, "2024-Q1", f.PeriodID)
	assert.True(t, f.VATCollected.Equal(decimal.NewFromInt(210)))
	assert.True(t, f.VATDeductible.Equal(decimal.NewFromFloat(121.49)))
	assert.True(t, f.GrossIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, f.DeductibleExpense.Equal(decimal.NewFromFloat(878.51)))
}

func TestSummarize(t *testing.T) {
	engine := newTestEngine(t, domain.RegimeGeneral)
	summary, err := engine.Summarize(context.Background(), 2024, []domain.PeriodFigures{sampleFigures()})
	require.NoError(t, err)
	assert.Equal(t, 2024, summary.Year)
	assert.Equal(t, 1, summary.PeriodCount)
	assert.True(t, summary.TotalBracketTax.Equal(decimal.NewFromFloat(4177.5)))
}
