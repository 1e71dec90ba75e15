package domain

import (
	"github.com/shopspring/decimal"
)

// TaxBracket is one band of a progressive rate table.
// A nil Upper means the band is open-ended and taxes all remaining base.
type TaxBracket struct {
	Lower decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}

// OpenEnded reports whether the bracket has no upper bound
func (b TaxBracket) OpenEnded() bool { return b.Upper == nil }

// NewBracket builds a closed bracket; NewOpenBracket builds the open-ended top band.
func NewBracket(lower, upper, rate decimal.Decimal) TaxBracket {
	return TaxBracket{Lower: lower, Upper: &upper, Rate: rate}
}

func NewOpenBracket(lower, rate decimal.Decimal) TaxBracket {
	return TaxBracket{Lower: lower, Rate: rate}
}

// PeriodFigures are the caller-supplied raw figures for one reporting period
// (month, quarter or year). The engine never originates these values.
type PeriodFigures struct {
	PeriodID          string          `yaml:"period_id" json:"period_id"`
	GrossIncome       decimal.Decimal `yaml:"gross_income" json:"gross_income"`
	DeductibleExpense decimal.Decimal `yaml:"deductible_expense" json:"deductible_expense"`
	VATCollected      decimal.Decimal `yaml:"vat_collected" json:"vat_collected"`
	VATDeductible     decimal.Decimal `yaml:"vat_deductible" json:"vat_deductible"`
	Transactions      int             `yaml:"transactions,omitempty" json:"transactions,omitempty"`
}

// VATDirection tells whether a netted VAT amount is owed or reclaimable
type VATDirection string

const (
	VATPayable    VATDirection = "payable"
	VATRefundable VATDirection = "refundable"
)

// VATNet is the single payable or refundable VAT figure for a period
type VATNet struct {
	Amount    decimal.Decimal `json:"amount"`
	Direction VATDirection    `json:"direction"`
}

// Payable returns the amount owed, zero when the balance is refundable
func (v VATNet) Payable() decimal.Decimal {
	if v.Direction == VATPayable {
		return v.Amount
	}
	return decimal.Zero
}

// Signed returns the amount as positive when payable and negative when refundable
func (v VATNet) Signed() decimal.Decimal {
	if v.Direction == VATRefundable {
		return v.Amount.Neg()
	}
	return v.Amount
}

// TaxResult is recomputed fresh for every call; it is never cached by the engine.
type TaxResult struct {
	TaxableBase   decimal.Decimal `json:"taxable_base"`
	BracketTax    decimal.Decimal `json:"bracket_tax"`
	VATNet        VATNet          `json:"vat_net"`
	TotalTaxes    decimal.Decimal `json:"total_taxes"`
	NetIncome     decimal.Decimal `json:"net_income"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
}

// PeriodResult pairs a period's figures with its derived result
type PeriodResult struct {
	Figures PeriodFigures `json:"figures"`
	Result  TaxResult     `json:"result"`
}

// NetProfit is income minus expense minus bracket tax for the period
func (p PeriodResult) NetProfit() decimal.Decimal { return p.Result.NetIncome }

// QuarterSummary rolls month or quarter periods into one calendar quarter
type QuarterSummary struct {
	Quarter      int             `json:"quarter"`
	PeriodCount  int             `json:"period_count"`
	GrossIncome  decimal.Decimal `json:"gross_income"`
	Expenses     decimal.Decimal `json:"expenses"`
	BracketTax   decimal.Decimal `json:"bracket_tax"`
	VATNet       decimal.Decimal `json:"vat_net"`
	NetIncome    decimal.Decimal `json:"net_income"`
	Transactions int             `json:"transactions"`
}

// AnnualSummary is the aggregate over one year's periods plus the untouched breakdown
type AnnualSummary struct {
	Year        int `json:"year"`
	PeriodCount int `json:"period_count"`

	TotalGrossIncome  decimal.Decimal `json:"total_gross_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	TotalTaxableBase  decimal.Decimal `json:"total_taxable_base"`
	TotalBracketTax   decimal.Decimal `json:"total_bracket_tax"`
	TotalVATCollected decimal.Decimal `json:"total_vat_collected"`
	TotalVATDeducted  decimal.Decimal `json:"total_vat_deducted"`
	TotalVATNet       decimal.Decimal `json:"total_vat_net"` // signed: negative means refundable overall
	TotalTaxes        decimal.Decimal `json:"total_taxes"`
	TotalNetIncome    decimal.Decimal `json:"total_net_income"`
	TotalTransactions int             `json:"total_transactions"`

	AverageGrossIncome decimal.Decimal `json:"average_gross_income"`
	AverageNetIncome   decimal.Decimal `json:"average_net_income"`
	AverageTaxes       decimal.Decimal `json:"average_taxes"`

	BestPeriod  *PeriodResult `json:"best_period"`
	WorstPeriod *PeriodResult `json:"worst_period"`

	Quarters []QuarterSummary `json:"quarters"`
	Periods  []PeriodResult   `json:"periods"`
}
