package output

import (
	"testing"

	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzeSummary(t *testing.T) {
	h := AnalyzeSummary(buildTestReport().Summary)

	assert.Equal(t, "2024-Q1", h.BestPeriodID)
	assert.Equal(t, "2024-Q2", h.WorstPeriodID)
	assert.True(t, h.Spread.Equal(decimal.NewFromInt(6480-810)), h.Spread.String())
	assert.Equal(t, domain.VATPayable, h.VATPosition)
	assert.True(t, h.EffectiveRate.Equal(decimal.RequireFromString("0.19")), h.EffectiveRate.String())
}

func TestAnalyzeSummary_RefundableAndEmpty(t *testing.T) {
	s := &domain.AnnualSummary{TotalVATNet: decimal.NewFromInt(-25)}
	h := AnalyzeSummary(s)
	assert.Equal(t, domain.VATRefundable, h.VATPosition)
	assert.Empty(t, h.BestPeriodID)
	assert.True(t, h.EffectiveRate.IsZero())

	assert.Equal(t, domain.VATPayable, AnalyzeSummary(nil).VATPosition)
}

func TestGenerateAssumptions(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	cfg.Regime = domain.RegimeSimplified

	lines := GenerateAssumptions(cfg)
	assert.Contains(t, lines, "Fiscal regime: simplified")
	assert.Contains(t, lines, "VAT rate: standard (21.00%)")
	assert.Contains(t, lines, "Simplified reduction on net profit: 5.00%")
	assert.Contains(t, lines, "Bracket from 300,000.00 € and above: 47.00%")
	assert.Nil(t, GenerateAssumptions(nil))
}
