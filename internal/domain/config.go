package domain

import (
	"github.com/shopspring/decimal"
)

// Engine defaults applied when the rule file leaves an option unset
var (
	DefaultReductionCoefficient      = decimal.NewFromFloat(0.05)
	DefaultModuleCoefficient         = decimal.NewFromFloat(0.15)
	DefaultVATBearingExpenseFraction = decimal.NewFromFloat(0.70)
)

const (
	DefaultQuarterlyReminderDays = 15
	DefaultAnnualReminderDays    = 30
	DefaultReminderLookaheadDays = 30
)

// ReminderWindowDays sets how many days before a due date its reminder opens
type ReminderWindowDays struct {
	Quarterly int `yaml:"quarterly" json:"quarterly"`
	Annual    int `yaml:"annual" json:"annual"`
}

// FormCodes names the statutory form filed for each obligation type
type FormCodes struct {
	QuarterlyVAT       string `yaml:"quarterly_vat,omitempty" json:"quarterly_vat,omitempty"`
	QuarterlyIncomeTax string `yaml:"quarterly_income_tax,omitempty" json:"quarterly_income_tax,omitempty"`
	AnnualDeclaration  string `yaml:"annual_declaration,omitempty" json:"annual_declaration,omitempty"`
	Installment        string `yaml:"installment_payment,omitempty" json:"installment_payment,omitempty"`
}

// Configuration is the caller-supplied rule set for one taxpayer.
// Pointer fields are optional; nil selects the documented default.
type Configuration struct {
	Regime      FiscalRegime `yaml:"regime" json:"regime"`
	VATRateKind VATRateKind  `yaml:"vat_rate_kind" json:"vat_rate_kind"`
	Brackets    []TaxBracket `yaml:"brackets" json:"brackets"`

	ReductionCoefficient      *decimal.Decimal `yaml:"reduction_coefficient,omitempty" json:"reduction_coefficient,omitempty"`
	ModuleCoefficient         *decimal.Decimal `yaml:"module_coefficient,omitempty" json:"module_coefficient,omitempty"`
	VATBearingExpenseFraction *decimal.Decimal `yaml:"vat_bearing_expense_fraction,omitempty" json:"vat_bearing_expense_fraction,omitempty"`

	ReminderWindowDays    *ReminderWindowDays `yaml:"reminder_window_days,omitempty" json:"reminder_window_days,omitempty"`
	ReminderLookaheadDays int                 `yaml:"reminder_lookahead_days,omitempty" json:"reminder_lookahead_days,omitempty"`
	FormCodes             *FormCodes          `yaml:"form_codes,omitempty" json:"form_codes,omitempty"`

	// Optional data block: the figures for one fiscal year.
	Year    int             `yaml:"year,omitempty" json:"year,omitempty"`
	Periods []PeriodFigures `yaml:"periods,omitempty" json:"periods,omitempty"`
}

func (c *Configuration) Reduction() decimal.Decimal {
	if c.ReductionCoefficient == nil {
		return DefaultReductionCoefficient
	}
	return *c.ReductionCoefficient
}

func (c *Configuration) Module() decimal.Decimal {
	if c.ModuleCoefficient == nil {
		return DefaultModuleCoefficient
	}
	return *c.ModuleCoefficient
}

func (c *Configuration) VATBearingFraction() decimal.Decimal {
	if c.VATBearingExpenseFraction == nil {
		return DefaultVATBearingExpenseFraction
	}
	return *c.VATBearingExpenseFraction
}

// Windows returns the reminder lead times, defaulting each unset (zero) side
func (c *Configuration) Windows() ReminderWindowDays {
	w := ReminderWindowDays{Quarterly: DefaultQuarterlyReminderDays, Annual: DefaultAnnualReminderDays}
	if c.ReminderWindowDays != nil {
		if c.ReminderWindowDays.Quarterly != 0 {
			w.Quarterly = c.ReminderWindowDays.Quarterly
		}
		if c.ReminderWindowDays.Annual != 0 {
			w.Annual = c.ReminderWindowDays.Annual
		}
	}
	return w
}

func (c *Configuration) Lookahead() int {
	if c.ReminderLookaheadDays == 0 {
		return DefaultReminderLookaheadDays
	}
	return c.ReminderLookaheadDays
}

// Forms returns the form codes with defaults filled in
func (c *Configuration) Forms() FormCodes {
	f := FormCodes{QuarterlyVAT: "303", QuarterlyIncomeTax: "130", AnnualDeclaration: "100", Installment: "102"}
	if c.FormCodes == nil {
		return f
	}
	if c.FormCodes.QuarterlyVAT != "" {
		f.QuarterlyVAT = c.FormCodes.QuarterlyVAT
	}
	if c.FormCodes.QuarterlyIncomeTax != "" {
		f.QuarterlyIncomeTax = c.FormCodes.QuarterlyIncomeTax
	}
	if c.FormCodes.AnnualDeclaration != "" {
		f.AnnualDeclaration = c.FormCodes.AnnualDeclaration
	}
	if c.FormCodes.Installment != "" {
		f.Installment = c.FormCodes.Installment
	}
	return f
}

// DefaultBrackets is a six-band progressive table (general regime, Spanish state+regional scale).
func DefaultBrackets() []TaxBracket {
	d := decimal.NewFromInt
	f := decimal.NewFromFloat
	return []TaxBracket{
		NewBracket(d(0), d(12450), f(0.19)),
		NewBracket(d(12450), d(20200), f(0.24)),
		NewBracket(d(20200), d(35200), f(0.30)),
		NewBracket(d(35200), d(60000), f(0.37)),
		NewBracket(d(60000), d(300000), f(0.45)),
		NewOpenBracket(d(300000), f(0.47)),
	}
}

// DefaultConfiguration returns a general-regime configuration at the standard VAT rate
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Regime:      RegimeGeneral,
		VATRateKind: VATStandard,
		Brackets:    DefaultBrackets(),
	}
}
