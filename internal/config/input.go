package config

import (
	"fmt"
	"os"

	"github.com/rpgo/fiscal-engine/internal/calculation"
	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of rule files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a rule file; YAML is a superset of JSON so both are accepted
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a rule document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		// unknown regime names fail here and still wrap ErrUnknownRegime
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(config.Brackets) == 0 {
		config.Brackets = domain.DefaultBrackets()
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration runs the engine checks plus the data block checks
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := calculation.ValidateConfiguration(config); err != nil {
		return err
	}

	if len(config.Periods) > 0 && config.Year == 0 {
		return domain.NewConfigError("year", "is required when periods are given")
	}

	seen := make(map[string]bool, len(config.Periods))
	for i, p := range config.Periods {
		if err := ip.validatePeriod(i, &p); err != nil {
			return err
		}
		if seen[p.PeriodID] {
			return domain.NewConfigError("periods", "duplicate period id %q", p.PeriodID)
		}
		seen[p.PeriodID] = true
	}

	return nil
}

func (ip *InputParser) validatePeriod(i int, p *domain.PeriodFigures) error {
	field := fmt.Sprintf("periods[%d]", i)
	if p.PeriodID == "" {
		return domain.NewConfigError(field, "period id is required")
	}
	if p.Transactions < 0 {
		return domain.NewConfigError(field, "transaction count cannot be negative")
	}
	return nil
}

// SaveConfiguration writes config as YAML
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration returns a general-regime rule set with four quarters of figures
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	d := decimal.NewFromInt
	config := domain.DefaultConfiguration()
	config.ReminderWindowDays = &domain.ReminderWindowDays{
		Quarterly: domain.DefaultQuarterlyReminderDays,
		Annual:    domain.DefaultAnnualReminderDays,
	}
	config.ReminderLookaheadDays = domain.DefaultReminderLookaheadDays
	config.Year = 2024
	config.Periods = []domain.PeriodFigures{
		{PeriodID: "2024-Q1", GrossIncome: d(14000), DeductibleExpense: d(3200), VATCollected: d(2940), VATDeductible: d(470), Transactions: 31},
		{PeriodID: "2024-Q2", GrossIncome: d(16500), DeductibleExpense: d(4100), VATCollected: d(3465), VATDeductible: d(603), Transactions: 38},
		{PeriodID: "2024-Q3", GrossIncome: d(9800), DeductibleExpense: d(5600), VATCollected: d(2058), VATDeductible: d(823), Transactions: 22},
		{PeriodID: "2024-Q4", GrossIncome: d(18200), DeductibleExpense: d(3900), VATCollected: d(3822), VATDeductible: d(573), Transactions: 41},
	}
	return config
}
