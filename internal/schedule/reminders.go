package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/pkg/dateutil"
)

// Reminders selects the deadlines that need attention today and words them.
//
// A deadline qualifies when it is not completed and either today falls inside
// its reminder window (open date through due date) or it is due within the
// lookahead. The feed is sorted ascending by due date.
func (s *Scheduler) Reminders(deadlines []domain.FiscalDeadline, today time.Time) []domain.Reminder {
	today = dateutil.DateOnly(today)
	selected := make([]domain.FiscalDeadline, 0, len(deadlines))
	for _, d := range deadlines {
		if DeriveStatus(today, d.DueDate, d.IsFiled) == domain.StatusCompleted {
			continue
		}
		days := dateutil.DaysBetween(today, d.DueDate)
		inWindow := !today.Before(dateutil.DateOnly(d.ReminderOpenDate)) && days >= 0
		soon := days > 0 && days <= s.Lookahead
		if inWindow || soon {
			selected = append(selected, d)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].DueDate.Before(selected[j].DueDate)
	})

	reminders := make([]domain.Reminder, 0, len(selected))
	for _, d := range selected {
		reminders = append(reminders, BuildReminder(d, today))
	}
	return reminders
}

// BuildReminder words a single deadline; wording and priority scale with days left.
func BuildReminder(d domain.FiscalDeadline, today time.Time) domain.Reminder {
	days := dateutil.DaysBetween(today, d.DueDate)
	due := d.DueDate.Format(dateutil.DateLayout)
	r := domain.Reminder{
		DeadlineID:   d.ID,
		Title:        d.Title,
		DueDate:      d.DueDate,
		DaysUntilDue: days,
	}
	switch {
	case days < 0:
		r.Priority = domain.PriorityHigh
		r.Message = fmt.Sprintf("OVERDUE: %s was due %s ago (%s). File it as soon as possible.", d.Title, dayCount(-days), due)
	case days == 0:
		r.Priority = domain.PriorityHigh
		r.Message = fmt.Sprintf("OVERDUE: %s is due today (%s) and still unfiled. File it now.", d.Title, due)
	case days == 1:
		r.Priority = domain.PriorityHigh
		r.Message = fmt.Sprintf("URGENT: %s is due tomorrow (%s).", d.Title, due)
	case days <= 7:
		r.Priority = domain.PriorityMedium
		if days <= 3 {
			r.Priority = domain.PriorityHigh
		}
		r.Message = fmt.Sprintf("URGENT: %s is due in %s (%s).", d.Title, dayCount(days), due)
	case days <= 15:
		r.Priority = domain.PriorityMedium
		r.Message = fmt.Sprintf("Reminder: %s is due in %s (%s).", d.Title, dayCount(days), due)
	default:
		r.Priority = domain.PriorityLow
		r.Message = fmt.Sprintf("Upcoming: %s is due on %s, in %s.", d.Title, due, dayCount(days))
	}
	return r
}

func dayCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
