package output

import (
	"strconv"
	"time"

	"github.com/rpgo/fiscal-engine/pkg/dateutil"
	money "github.com/rpgo/fiscal-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as euros with thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a fraction (0.19) as a percentage with 2 decimals.
func FormatPercentage(fraction decimal.Decimal) string { return money.FormatPercent(fraction) }

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateutil.DateLayout)
}

func intToString(v int) string { return strconv.Itoa(v) }

func boolToString(v bool) string { return strconv.FormatBool(v) }
