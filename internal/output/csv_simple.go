package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVSummarizer writes one row per period followed by a TOTAL row.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	if report.Summary == nil {
		return nil, fmt.Errorf("csv output needs an annual summary")
	}
	s := report.Summary

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Period", "GrossIncome", "DeductibleExpense", "TaxableBase", "BracketTax", "VATCollected", "VATDeductible", "VATNet", "VATDirection", "TotalTaxes", "NetIncome", "EffectiveRate", "Transactions"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range s.Periods {
		f, r := p.Figures, p.Result
		row := []string{
			f.PeriodID,
			f.GrossIncome.StringFixed(2),
			f.DeductibleExpense.StringFixed(2),
			r.TaxableBase.StringFixed(2),
			r.BracketTax.StringFixed(2),
			f.VATCollected.StringFixed(2),
			f.VATDeductible.StringFixed(2),
			r.VATNet.Amount.StringFixed(2),
			string(r.VATNet.Direction),
			r.TotalTaxes.StringFixed(2),
			r.NetIncome.StringFixed(2),
			r.EffectiveRate.StringFixed(4),
			intToString(f.Transactions),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	h := AnalyzeSummary(s)
	total := []string{
		"TOTAL",
		s.TotalGrossIncome.StringFixed(2),
		s.TotalExpenses.StringFixed(2),
		s.TotalTaxableBase.StringFixed(2),
		s.TotalBracketTax.StringFixed(2),
		s.TotalVATCollected.StringFixed(2),
		s.TotalVATDeducted.StringFixed(2),
		s.TotalVATNet.Abs().StringFixed(2),
		string(h.VATPosition),
		s.TotalTaxes.StringFixed(2),
		s.TotalNetIncome.StringFixed(2),
		h.EffectiveRate.StringFixed(4),
		intToString(s.TotalTransactions),
	}
	if err := w.Write(total); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
