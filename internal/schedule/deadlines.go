package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/pkg/dateutil"
)

// dueRule places a due date relative to the obligation's fiscal year.
// yearOffset makes the cross-year case explicit instead of inferring it from month math.
type dueRule struct {
	month      time.Month
	day        int
	yearOffset int
}

func (r dueRule) dueDate(fiscalYear int) (dueYear int, due time.Time) {
	dueYear = fiscalYear + r.yearOffset
	return dueYear, dateutil.Date(dueYear, r.month, r.day)
}

var (
	annualDue      = dueRule{time.June, 30, 1}
	installmentDue = dueRule{time.July, 20, 0}
)

// quarterlyGraceDays is how long after a quarter closes its filings fall due:
// the 20th of the following month, or January 30 for Q4.
var quarterlyGraceDays = [4]int{20, 20, 20, 30}

// quarterlyDueDate places a quarter's filings after the quarter end; Q4 lands in year+1.
func quarterlyDueDate(fiscalYear, q int) (dueYear int, due time.Time) {
	due = dateutil.QuarterEnd(fiscalYear, q).AddDate(0, 0, quarterlyGraceDays[q-1])
	return due.Year(), due
}

// Scheduler generates a year's obligation calendar and its reminder feed.
type Scheduler struct {
	Windows   domain.ReminderWindowDays
	Lookahead int
	Forms     domain.FormCodes
}

// NewScheduler takes reminder windows, lookahead and form codes from cfg;
// a nil cfg uses the defaults.
func NewScheduler(cfg *domain.Configuration) *Scheduler {
	if cfg == nil {
		cfg = &domain.Configuration{}
	}
	return &Scheduler{
		Windows:   cfg.Windows(),
		Lookahead: cfg.Lookahead(),
		Forms:     cfg.Forms(),
	}
}

// Generate builds the ten obligations of fiscal year `year`, ordered by due date:
// four quarterly VAT returns, four quarterly income-tax payments, the mid-year
// installment and the annual declaration. Every deadline starts unfiled; call
// ApplyFilings to derive statuses for a given day.
func (s *Scheduler) Generate(year int) []domain.FiscalDeadline {
	deadlines := make([]domain.FiscalDeadline, 0, 10)
	for q := 1; q <= 4; q++ {
		deadlines = append(deadlines,
			s.quarterly(year, q, domain.ObligationQuarterlyVAT, s.Forms.QuarterlyVAT, "VAT return"),
			s.quarterly(year, q, domain.ObligationQuarterlyIncomeTax, s.Forms.QuarterlyIncomeTax, "Income tax installment"),
		)
	}

	dueYear, due := installmentDue.dueDate(year)
	deadlines = append(deadlines, domain.FiscalDeadline{
		ID:               fmt.Sprintf("%d-%s", year, s.Forms.Installment),
		FormCode:         s.Forms.Installment,
		Title:            fmt.Sprintf("Mid-year installment payment %d (Form %s)", year, s.Forms.Installment),
		Obligation:       domain.ObligationInstallment,
		PeriodLabel:      fmt.Sprintf("H1 %d", year),
		Year:             year,
		DueYear:          dueYear,
		DueDate:          due,
		ReminderOpenDate: due.AddDate(0, 0, -s.Windows.Quarterly),
		Status:           domain.StatusPending,
	})

	dueYear, due = annualDue.dueDate(year)
	deadlines = append(deadlines, domain.FiscalDeadline{
		ID:               fmt.Sprintf("%d-%s", year, s.Forms.AnnualDeclaration),
		FormCode:         s.Forms.AnnualDeclaration,
		Title:            fmt.Sprintf("Annual income tax declaration %d (Form %s)", year, s.Forms.AnnualDeclaration),
		Obligation:       domain.ObligationAnnualDeclaration,
		PeriodLabel:      fmt.Sprintf("FY %d", year),
		Year:             year,
		DueYear:          dueYear,
		DueDate:          due,
		ReminderOpenDate: due.AddDate(0, 0, -s.Windows.Annual),
		Status:           domain.StatusPending,
	})

	sortByDueDate(deadlines)
	return deadlines
}

func (s *Scheduler) quarterly(year, q int, kind domain.ObligationType, form, label string) domain.FiscalDeadline {
	dueYear, due := quarterlyDueDate(year, q)
	return domain.FiscalDeadline{
		ID:               fmt.Sprintf("%d-%s-Q%d", year, form, q),
		FormCode:         form,
		Title:            fmt.Sprintf("%s Q%d %d (Form %s)", label, q, year, form),
		Obligation:       kind,
		PeriodLabel:      fmt.Sprintf("Q%d %d", q, year),
		Year:             year,
		DueYear:          dueYear,
		Quarter:          q,
		DueDate:          due,
		ReminderOpenDate: due.AddDate(0, 0, -s.Windows.Quarterly),
		Status:           domain.StatusPending,
	}
}

// Calendar generates the year and derives every status for today from the filed set
func (s *Scheduler) Calendar(year int, today time.Time, filed map[string]bool) []domain.FiscalDeadline {
	return ApplyFilings(s.Generate(year), filed, today)
}

// DeriveStatus is the whole state machine: filed wins, then a due date already
// passed is overdue, otherwise pending. Only calendar dates are compared.
func DeriveStatus(today, dueDate time.Time, isFiled bool) domain.DeadlineStatus {
	if isFiled {
		return domain.StatusCompleted
	}
	if dateutil.DateOnly(today).After(dateutil.DateOnly(dueDate)) {
		return domain.StatusOverdue
	}
	return domain.StatusPending
}

// ApplyFilings returns a copy of deadlines with IsFiled taken from filed and
// Status recomputed for today. Stored statuses are never trusted.
func ApplyFilings(deadlines []domain.FiscalDeadline, filed map[string]bool, today time.Time) []domain.FiscalDeadline {
	out := make([]domain.FiscalDeadline, len(deadlines))
	for i, d := range deadlines {
		if filed != nil {
			d.IsFiled = filed[d.ID]
		}
		d.Status = DeriveStatus(today, d.DueDate, d.IsFiled)
		out[i] = d
	}
	return out
}

// MarkFiled sets or clears the filed flag of one deadline and re-derives its status.
// Filing an overdue deadline moves it to completed.
func MarkFiled(deadlines []domain.FiscalDeadline, id string, filed bool, today time.Time) ([]domain.FiscalDeadline, error) {
	out := append([]domain.FiscalDeadline(nil), deadlines...)
	for i := range out {
		if out[i].ID == id {
			out[i].IsFiled = filed
			out[i].Status = DeriveStatus(today, out[i].DueDate, filed)
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrDeadlineNotFound, id)
}

// Overdue returns the deadlines whose status is overdue, in input order
func Overdue(deadlines []domain.FiscalDeadline) []domain.FiscalDeadline {
	var out []domain.FiscalDeadline
	for _, d := range deadlines {
		if d.Status == domain.StatusOverdue {
			out = append(out, d)
		}
	}
	return out
}

// Find looks a deadline up by id
func Find(deadlines []domain.FiscalDeadline, id string) (domain.FiscalDeadline, bool) {
	for _, d := range deadlines {
		if d.ID == id {
			return d, true
		}
	}
	return domain.FiscalDeadline{}, false
}

// FiscalYearOf reads the fiscal year prefix of a generated deadline id
func FiscalYearOf(id string) (int, error) {
	prefix, _, ok := strings.Cut(id, "-")
	year, err := strconv.Atoi(prefix)
	if !ok || err != nil || len(prefix) != 4 {
		return 0, fmt.Errorf("%w: %s", domain.ErrDeadlineNotFound, id)
	}
	return year, nil
}

func sortByDueDate(deadlines []domain.FiscalDeadline) {
	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].DueDate.Before(deadlines[j].DueDate)
	})
}
