package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rpgo/fiscal-engine/internal/domain"
)

// FilingSource supplies the caller-persisted filed flags for a fiscal year
type FilingSource interface {
	Filings(ctx context.Context, year int) (map[string]bool, error)
}

// Tracker joins the scheduler with persisted filing flags
type Tracker struct {
	Scheduler *Scheduler
	Source    FilingSource
}

// NewTracker creates a tracker; a nil source means nothing has been filed
func NewTracker(s *Scheduler, source FilingSource) *Tracker {
	return &Tracker{Scheduler: s, Source: source}
}

// Calendar returns the year's deadlines with statuses derived for today
func (t *Tracker) Calendar(ctx context.Context, year int, today time.Time) ([]domain.FiscalDeadline, error) {
	filed := map[string]bool{}
	if t.Source != nil {
		var err error
		if filed, err = t.Source.Filings(ctx, year); err != nil {
			return nil, fmt.Errorf("failed to load filings for %d: %w", year, err)
		}
	}
	return t.Scheduler.Calendar(year, today, filed), nil
}

// Feed returns the reminders for today's calendar year.
func (t *Tracker) Feed(ctx context.Context, today time.Time) ([]domain.Reminder, error) {
	return t.FeedForYear(ctx, today.Year(), today)
}

// FeedForYear returns the reminders among the deadlines of fiscal years
// year-1 and year. The previous year is included because its Q4 filings and
// annual declaration fall due in the following calendar year.
func (t *Tracker) FeedForYear(ctx context.Context, year int, today time.Time) ([]domain.Reminder, error) {
	var all []domain.FiscalDeadline
	for _, y := range []int{year - 1, year} {
		deadlines, err := t.Calendar(ctx, y, today)
		if err != nil {
			return nil, err
		}
		all = append(all, deadlines...)
	}
	return t.Scheduler.Reminders(all, today), nil
}
