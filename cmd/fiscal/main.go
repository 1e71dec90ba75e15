// Command fiscal computes taxes for a year of period figures and tracks the
// statutory filing calendar.
//
//	fiscal tax --income 30000 --expense 10000 --vat-collected 6300 --vat-deductible 1470
//	fiscal summary --config rules.yaml --format csv
//	fiscal deadlines --year 2024
//	fiscal reminders
//	fiscal file 2024-303-Q1
//	fiscal serve
//
// Settings come from FISCAL_* environment variables (see internal/config).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
