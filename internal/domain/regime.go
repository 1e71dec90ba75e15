package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FiscalRegime selects the rule used to derive the taxable base from gross figures
type FiscalRegime int

const (
	RegimeGeneral FiscalRegime = iota
	RegimeSimplified
	RegimeObjectiveEstimate
	RegimeExempt
)

// FiscalRegimes lists every regime in declaration order
var FiscalRegimes = []FiscalRegime{RegimeGeneral, RegimeSimplified, RegimeObjectiveEstimate, RegimeExempt}

func (r FiscalRegime) String() string {
	switch r {
	case RegimeGeneral:
		return "general"
	case RegimeSimplified:
		return "simplified"
	case RegimeObjectiveEstimate:
		return "objective_estimate"
	case RegimeExempt:
		return "exempt"
	default:
		return fmt.Sprintf("regime(%d)", int(r))
	}
}

// Valid reports whether r is one of the declared regimes
func (r FiscalRegime) Valid() bool {
	return r >= RegimeGeneral && r <= RegimeExempt
}

// ParseFiscalRegime accepts the canonical names plus a few common spellings
func ParseFiscalRegime(s string) (FiscalRegime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general", "normal":
		return RegimeGeneral, nil
	case "simplified", "simplificado":
		return RegimeSimplified, nil
	case "objective_estimate", "objective-estimate", "modules", "modulos":
		return RegimeObjectiveEstimate, nil
	case "exempt", "exento":
		return RegimeExempt, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRegime, s)
}

func (r FiscalRegime) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRegime, int(r))
	}
	return []byte(r.String()), nil
}

func (r *FiscalRegime) UnmarshalText(text []byte) error {
	parsed, err := ParseFiscalRegime(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// VATRateKind is the nominal VAT rate class applied to income and expenses
type VATRateKind int

const (
	VATStandard VATRateKind = iota
	VATReduced
	VATSuperReduced
	VATExempt
	VATNotSubject
)

var vatRates = map[VATRateKind]decimal.Decimal{
	VATStandard:     decimal.NewFromFloat(0.21),
	VATReduced:      decimal.NewFromFloat(0.10),
	VATSuperReduced: decimal.NewFromFloat(0.04),
	VATExempt:       decimal.Zero,
	VATNotSubject:   decimal.Zero,
}

// Rate returns the VAT rate as a fraction (0.21 for the standard rate)
func (k VATRateKind) Rate() decimal.Decimal {
	return vatRates[k]
}

func (k VATRateKind) String() string {
	switch k {
	case VATStandard:
		return "standard"
	case VATReduced:
		return "reduced"
	case VATSuperReduced:
		return "super_reduced"
	case VATExempt:
		return "exempt"
	case VATNotSubject:
		return "not_subject"
	default:
		return fmt.Sprintf("vat(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared rate kinds
func (k VATRateKind) Valid() bool {
	_, ok := vatRates[k]
	return ok
}

// ParseVATRateKind parses the canonical rate-kind names
func ParseVATRateKind(s string) (VATRateKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "general":
		return VATStandard, nil
	case "reduced":
		return VATReduced, nil
	case "super_reduced", "super-reduced", "superreduced":
		return VATSuperReduced, nil
	case "exempt":
		return VATExempt, nil
	case "not_subject", "not-subject":
		return VATNotSubject, nil
	}
	return 0, fmt.Errorf("%w: unknown VAT rate kind %q", ErrInvalidConfiguration, s)
}

func (k VATRateKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: unknown VAT rate kind %d", ErrInvalidConfiguration, int(k))
	}
	return []byte(k.String()), nil
}

func (k *VATRateKind) UnmarshalText(text []byte) error {
	parsed, err := ParseVATRateKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
