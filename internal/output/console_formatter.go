package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// ConsoleFormatter renders a human-readable report: rules, annual summary,
// quarters, periods, the obligation calendar and the reminder feed.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "FISCAL REPORT %d\n", report.Year)
	fmt.Fprintln(&buf, "================================")
	if !report.Today.IsZero() {
		fmt.Fprintf(&buf, "As of: %s\n", formatDate(report.Today))
	}

	if lines := GenerateAssumptions(report.Rules); len(lines) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "RULES")
		for _, l := range lines {
			fmt.Fprintf(&buf, "  - %s\n", l)
		}
	}

	if s := report.Summary; s != nil {
		h := AnalyzeSummary(s)
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ANNUAL SUMMARY")
		fmt.Fprintf(&buf, "Periods:            %d\n", s.PeriodCount)
		fmt.Fprintf(&buf, "Gross income:       %s\n", FormatCurrency(s.TotalGrossIncome))
		fmt.Fprintf(&buf, "Expenses:           %s\n", FormatCurrency(s.TotalExpenses))
		fmt.Fprintf(&buf, "Taxable base:       %s\n", FormatCurrency(s.TotalTaxableBase))
		fmt.Fprintf(&buf, "Income tax:         %s (effective %s)\n", FormatCurrency(s.TotalBracketTax), FormatPercentage(h.EffectiveRate))
		fmt.Fprintf(&buf, "VAT balance:        %s %s\n", FormatCurrency(s.TotalVATNet.Abs()), h.VATPosition)
		fmt.Fprintf(&buf, "Total taxes:        %s\n", FormatCurrency(s.TotalTaxes))
		fmt.Fprintf(&buf, "Net income:         %s\n", FormatCurrency(s.TotalNetIncome))
		fmt.Fprintf(&buf, "Average per period: income %s, net %s, taxes %s\n",
			FormatCurrency(s.AverageGrossIncome), FormatCurrency(s.AverageNetIncome), FormatCurrency(s.AverageTaxes))
		if h.BestPeriodID != "" {
			fmt.Fprintf(&buf, "Best period:        %s (%s)\n", h.BestPeriodID, FormatCurrency(h.BestNet))
			fmt.Fprintf(&buf, "Worst period:       %s (%s)\n", h.WorstPeriodID, FormatCurrency(h.WorstNet))
		}

		if len(s.Quarters) > 0 {
			fmt.Fprintln(&buf)
			fmt.Fprintln(&buf, "QUARTERS")
			tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Quarter\tPeriods\tIncome\tExpenses\tIncome tax\tVAT net\tNet income\t")
			for _, q := range s.Quarters {
				fmt.Fprintf(tw, "Q%d\t%d\t%s\t%s\t%s\t%s\t%s\t\n", q.Quarter, q.PeriodCount,
					FormatCurrency(q.GrossIncome), FormatCurrency(q.Expenses), FormatCurrency(q.BracketTax),
					FormatCurrency(q.VATNet), FormatCurrency(q.NetIncome))
			}
			tw.Flush()
		}

		if len(s.Periods) > 0 {
			fmt.Fprintln(&buf)
			fmt.Fprintln(&buf, "PERIODS")
			tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Period\tIncome\tBase\tIncome tax\tVAT\tNet income\t")
			for _, p := range s.Periods {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\t%s\t\n", p.Figures.PeriodID,
					FormatCurrency(p.Figures.GrossIncome), FormatCurrency(p.Result.TaxableBase),
					FormatCurrency(p.Result.BracketTax), FormatCurrency(p.Result.VATNet.Amount),
					p.Result.VATNet.Direction, FormatCurrency(p.Result.NetIncome))
			}
			tw.Flush()
		}
	}

	if len(report.Deadlines) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "DEADLINES")
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		for _, d := range report.Deadlines {
			fmt.Fprintf(tw, "%s\t%s\t%s\t[%s]\n", formatDate(d.DueDate), d.ID, d.Title, d.Status)
		}
		tw.Flush()
	}

	if report.Reminders != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "REMINDERS")
		if len(report.Reminders) == 0 {
			fmt.Fprintln(&buf, "  Nothing due soon.")
		}
		for _, r := range report.Reminders {
			fmt.Fprintf(&buf, "  [%s] %s\n", strings.ToUpper(string(r.Priority)), r.Message)
		}
	}

	return buf.Bytes(), nil
}
