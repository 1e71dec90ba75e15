package output

import (
	"io"
	"time"

	"github.com/rpgo/fiscal-engine/internal/domain"
)

// ErrUnsupportedFormat is returned for an unknown format name.
var ErrUnsupportedFormat = domain.ErrUnsupportedFormat

// Report is everything a formatter can render for one fiscal year.
// Any section may be empty; formatters skip what is missing.
type Report struct {
	Year      int                     `json:"year"`
	Today     time.Time               `json:"today"`
	Rules     *domain.Configuration   `json:"-"`
	Summary   *domain.AnnualSummary   `json:"summary,omitempty"`
	Deadlines []domain.FiscalDeadline `json:"deadlines,omitempty"`
	Reminders []domain.Reminder       `json:"reminders,omitempty"`
}

// Render formats report with the named formatter and writes it to w.
func Render(w io.Writer, report *Report, format string) error {
	f, err := LookupFormatter(format)
	if err != nil {
		return err
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
