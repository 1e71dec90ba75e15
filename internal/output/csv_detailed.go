package output

import (
	"bytes"
	"encoding/csv"
)

// CSVDeadlineExporter writes the obligation calendar, one row per deadline.
type CSVDeadlineExporter struct{}

func (c CSVDeadlineExporter) Name() string      { return "deadlines-csv" }
func (c CSVDeadlineExporter) Extension() string { return "csv" }

func (c CSVDeadlineExporter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"ID", "FormCode", "Obligation", "Period", "FiscalYear", "DueDate", "ReminderOpens", "Status", "Filed"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, d := range report.Deadlines {
		row := []string{
			d.ID,
			d.FormCode,
			string(d.Obligation),
			d.PeriodLabel,
			intToString(d.Year),
			formatDate(d.DueDate),
			formatDate(d.ReminderOpenDate),
			string(d.Status),
			boolToString(d.IsFiled),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
