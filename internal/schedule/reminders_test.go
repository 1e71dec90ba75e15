package schedule

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/pkg/dateutil"
)

func TestReminders_DayBeforeDue(t *testing.T) {
	s := defaultScheduler()
	today := dateutil.Date(2024, time.April, 19)
	deadlines := s.Calendar(2024, today, nil)

	q1, _ := Find(deadlines, "2024-303-Q1")
	assert.Equal(t, domain.StatusPending, q1.Status)

	reminders := s.Reminders(deadlines, today)
	require.NotEmpty(t, reminders)

	var found bool
	for _, r := range reminders {
		if r.DeadlineID == "2024-303-Q1" {
			found = true
			assert.Equal(t, domain.PriorityHigh, r.Priority)
			assert.Equal(t, 1, r.DaysUntilDue)
			assert.Contains(t, r.Message, "due tomorrow")
		}
	}
	assert.True(t, found)
}

func TestReminders_Selection(t *testing.T) {
	s := defaultScheduler()

	tests := []struct {
		name        string
		description string
		today       time.Time
		filed       map[string]bool
		expectedIDs []string
	}{
		{
			name:        "inside reminder window",
			description: "Q1 opens on Apr 5, ten days before due",
			today:       dateutil.Date(2024, time.April, 10),
			expectedIDs: []string{"2024-303-Q1", "2024-130-Q1"},
		},
		{
			name:        "lookahead before window opens",
			description: "Q1 is 26 days out, inside the 30 day lookahead",
			today:       dateutil.Date(2024, time.March, 25),
			expectedIDs: []string{"2024-303-Q1", "2024-130-Q1"},
		},
		{
			name:        "due today",
			today:       dateutil.Date(2024, time.April, 20),
			expectedIDs: []string{"2024-303-Q1", "2024-130-Q1"},
		},
		{
			name:        "filed deadlines are dropped",
			today:       dateutil.Date(2024, time.April, 10),
			filed:       map[string]bool{"2024-303-Q1": true},
			expectedIDs: []string{"2024-130-Q1"},
		},
		{
			name:        "overdue items are not reminders",
			description: "day after Q1 due date, nothing else within range",
			today:       dateutil.Date(2024, time.April, 21),
			expectedIDs: []string{},
		},
		{
			name:        "nothing near",
			today:       dateutil.Date(2024, time.February, 1),
			expectedIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reminders := s.Reminders(s.Calendar(2024, tt.today, tt.filed), tt.today)
			ids := make([]string, 0, len(reminders))
			for _, r := range reminders {
				ids = append(ids, r.DeadlineID)
			}
			assert.Equal(t, tt.expectedIDs, ids, tt.description)
		})
	}
}

func TestReminders_SortedAndNeverCompleted(t *testing.T) {
	s := defaultScheduler()
	today := dateutil.Date(2024, time.July, 1)
	deadlines := s.Calendar(2024, today, map[string]bool{"2024-130-Q2": true})

	// reverse the input; output must still be ascending
	reversed := make([]domain.FiscalDeadline, len(deadlines))
	for i, d := range deadlines {
		reversed[len(deadlines)-1-i] = d
	}

	reminders := s.Reminders(reversed, today)
	require.NotEmpty(t, reminders)
	for i, r := range reminders {
		assert.NotEqual(t, "2024-130-Q2", r.DeadlineID)
		if i > 0 {
			assert.False(t, r.DueDate.Before(reminders[i-1].DueDate))
		}
	}
}

func TestBuildReminder_Bands(t *testing.T) {
	today := dateutil.Date(2024, time.March, 1)

	tests := []struct {
		name     string
		days     int
		priority domain.Priority
		contains string
	}{
		{"overdue", -2, domain.PriorityHigh, "was due 2 days ago"},
		{"overdue one day", -1, domain.PriorityHigh, "was due 1 day ago"},
		{"today", 0, domain.PriorityHigh, "OVERDUE: VAT return is due today"},
		{"tomorrow", 1, domain.PriorityHigh, "due tomorrow"},
		{"three days", 3, domain.PriorityHigh, "URGENT"},
		{"four days", 4, domain.PriorityMedium, "due in 4 days"},
		{"one week", 7, domain.PriorityMedium, "URGENT"},
		{"eight days", 8, domain.PriorityMedium, "Reminder:"},
		{"fifteen days", 15, domain.PriorityMedium, "Reminder:"},
		{"sixteen days", 16, domain.PriorityLow, "Upcoming:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := domain.FiscalDeadline{ID: "x", Title: "VAT return", DueDate: today.AddDate(0, 0, tt.days)}
			r := BuildReminder(d, today)
			assert.Equal(t, tt.days, r.DaysUntilDue)
			assert.Equal(t, tt.priority, r.Priority)
			assert.Contains(t, r.Message, tt.contains)
			assert.Contains(t, r.Message, "VAT return")
		})
	}
}

type stubFilings struct {
	filed map[int]map[string]bool
	err   error
}

func (s stubFilings) Filings(_ context.Context, year int) (map[string]bool, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.filed[year], nil
}

func TestTracker_FeedCoversPreviousYear(t *testing.T) {
	today := dateutil.Date(2025, time.January, 20)
	tracker := NewTracker(defaultScheduler(), stubFilings{filed: map[int]map[string]bool{
		2024: {"2024-130-Q4": true},
	}})

	reminders, err := tracker.Feed(context.Background(), today)
	require.NoError(t, err)

	ids := make([]string, 0, len(reminders))
	for _, r := range reminders {
		ids = append(ids, r.DeadlineID)
	}
	assert.Equal(t, []string{"2024-303-Q4"}, ids)
}

func TestTracker_Calendar(t *testing.T) {
	today := dateutil.Date(2024, time.May, 1)
	tracker := NewTracker(defaultScheduler(), nil)

	deadlines, err := tracker.Calendar(context.Background(), 2024, today)
	require.NoError(t, err)
	assert.Len(t, Overdue(deadlines), 2)

	failing := NewTracker(defaultScheduler(), stubFilings{err: errors.New("disk gone")})
	_, err = failing.Calendar(context.Background(), 2024, today)
	assert.ErrorContains(t, err, "disk gone")
}

func TestReminders_DueDateUsesOverdueWording(t *testing.T) {
	s := defaultScheduler()
	today := dateutil.Date(2024, time.April, 20)

	reminders := s.Reminders(s.Calendar(2024, today, nil), today)
	require.Len(t, reminders, 2)
	for _, r := range reminders {
		assert.Equal(t, 0, r.DaysUntilDue)
		assert.Equal(t, domain.PriorityHigh, r.Priority)
		assert.True(t, strings.HasPrefix(r.Message, "OVERDUE:"), r.Message)
		assert.Contains(t, r.Message, "due today (2024-04-20)")
	}
}
