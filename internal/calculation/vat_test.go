package calculation

import (
	"testing"

	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNetVAT(t *testing.T) {
	tests := []struct {
		name       string
		collected  decimal.Decimal
		deductible decimal.Decimal
		amount     decimal.Decimal
		direction  domain.VATDirection
	}{
		{"payable", decimal.NewFromInt(1000), decimal.NewFromInt(400), decimal.NewFromInt(600), domain.VATPayable},
		{"refundable", decimal.NewFromInt(400), decimal.NewFromInt(1000), decimal.NewFromInt(600), domain.VATRefundable},
		{"balanced", decimal.NewFromInt(500), decimal.NewFromInt(500), decimal.Zero, domain.VATPayable},
		{"negative input clamped", decimal.NewFromInt(-50), decimal.NewFromInt(100), decimal.NewFromInt(100), domain.VATRefundable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetVAT(tt.collected, tt.deductible)
			assert.True(t, got.Amount.Equal(tt.amount), "amount: want %s got %s", tt.amount, got.Amount)
			assert.Equal(t, tt.direction, got.Direction)
		})
	}
}

func TestNetVATSymmetry(t *testing.T) {
	values := []int64{0, 1, 250, 999, 1000, 48000}
	for _, a := range values {
		for _, b := range values {
			ab := NetVAT(decimal.NewFromInt(a), decimal.NewFromInt(b))
			ba := NetVAT(decimal.NewFromInt(b), decimal.NewFromInt(a))
			assert.True(t, ab.Amount.Equal(ba.Amount), "amount differs for (%d,%d)", a, b)
			if a != b {
				assert.NotEqual(t, ab.Direction, ba.Direction, "directions should be opposite for (%d,%d)", a, b)
			} else {
				assert.True(t, ab.Amount.IsZero())
			}
		}
	}
}

func TestVATNetHelpers(t *testing.T) {
	payable := domain.VATNet{Amount: decimal.NewFromInt(600), Direction: domain.VATPayable}
	refundable := domain.VATNet{Amount: decimal.NewFromInt(600), Direction: domain.VATRefundable}
	assert.True(t, payable.Payable().Equal(decimal.NewFromInt(600)))
	assert.True(t, refundable.Payable().IsZero())
	assert.True(t, refundable.Signed().Equal(decimal.NewFromInt(-600)))
}

func TestExtractVAT(t *testing.T) {
	standard := domain.VATStandard.Rate()
	assert.True(t, ExtractVAT(decimal.NewFromInt(1210), standard).Equal(decimal.NewFromInt(210)))
	assert.True(t, ExtractVAT(decimal.NewFromInt(100), standard).Equal(decimal.NewFromFloat(17.36)))
	assert.True(t, ExtractVAT(decimal.NewFromInt(104), domain.VATSuperReduced.Rate()).Equal(decimal.NewFromInt(4)))
	assert.True(t, ExtractVAT(decimal.NewFromInt(1000), domain.VATExempt.Rate()).IsZero())
	assert.True(t, ExtractVAT(decimal.NewFromInt(-1210), standard).IsZero())
}

func TestDeductibleVAT(t *testing.T) {
	got := DeductibleVAT(decimal.NewFromInt(1000), domain.VATStandard.Rate(), domain.DefaultVATBearingExpenseFraction)
	assert.True(t, got.Equal(decimal.NewFromFloat(121.49)), "got %s", got)

	all := DeductibleVAT(decimal.NewFromInt(1210), domain.VATStandard.Rate(), decimal.NewFromInt(1))
	assert.True(t, all.Equal(decimal.NewFromInt(210)))
}
