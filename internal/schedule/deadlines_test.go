package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/pkg/dateutil"
)

func defaultScheduler() *Scheduler {
	return NewScheduler(nil)
}

func TestGenerate_TenObligationsInDueOrder(t *testing.T) {
	deadlines := defaultScheduler().Generate(2024)
	require.Len(t, deadlines, 10)

	counts := map[domain.ObligationType]int{}
	ids := map[string]bool{}
	for i, d := range deadlines {
		counts[d.Obligation]++
		assert.False(t, ids[d.ID], "duplicate id %s", d.ID)
		ids[d.ID] = true
		assert.Equal(t, 2024, d.Year)
		assert.Equal(t, domain.StatusPending, d.Status)
		assert.False(t, d.IsFiled)
		if i > 0 {
			assert.False(t, d.DueDate.Before(deadlines[i-1].DueDate), "deadline %s out of order", d.ID)
		}
	}
	assert.Equal(t, 4, counts[domain.ObligationQuarterlyVAT])
	assert.Equal(t, 4, counts[domain.ObligationQuarterlyIncomeTax])
	assert.Equal(t, 1, counts[domain.ObligationAnnualDeclaration])
	assert.Equal(t, 1, counts[domain.ObligationInstallment])
}

func TestGenerate_DueDates(t *testing.T) {
	deadlines := defaultScheduler().Generate(2024)

	tests := []struct {
		id       string
		due      time.Time
		open     time.Time
		dueYear  int
		quarter  int
		formCode string
	}{
		{"2024-303-Q1", dateutil.Date(2024, time.April, 20), dateutil.Date(2024, time.April, 5), 2024, 1, "303"},
		{"2024-130-Q2", dateutil.Date(2024, time.July, 20), dateutil.Date(2024, time.July, 5), 2024, 2, "130"},
		{"2024-303-Q3", dateutil.Date(2024, time.October, 20), dateutil.Date(2024, time.October, 5), 2024, 3, "303"},
		{"2024-303-Q4", dateutil.Date(2025, time.January, 30), dateutil.Date(2025, time.January, 15), 2025, 4, "303"},
		{"2024-130-Q4", dateutil.Date(2025, time.January, 30), dateutil.Date(2025, time.January, 15), 2025, 4, "130"},
		{"2024-102", dateutil.Date(2024, time.July, 20), dateutil.Date(2024, time.July, 5), 2024, 0, "102"},
		{"2024-100", dateutil.Date(2025, time.June, 30), dateutil.Date(2025, time.May, 31), 2025, 0, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			d, ok := Find(deadlines, tt.id)
			require.True(t, ok)
			assert.True(t, tt.due.Equal(d.DueDate), "due %s", d.DueDate.Format(dateutil.DateLayout))
			assert.True(t, tt.open.Equal(d.ReminderOpenDate), "open %s", d.ReminderOpenDate.Format(dateutil.DateLayout))
			assert.Equal(t, tt.dueYear, d.DueYear)
			assert.Equal(t, tt.quarter, d.Quarter)
			assert.Equal(t, tt.formCode, d.FormCode)
			assert.Equal(t, 2024, d.Year)
		})
	}
}

func TestGenerate_Q4CrossesIntoNextYear(t *testing.T) {
	d, ok := Find(defaultScheduler().Generate(2024), "2024-303-Q4")
	require.True(t, ok)

	assert.Equal(t, "2025-01-30", d.DueDate.Format(dateutil.DateLayout))
	assert.Equal(t, "2025-01-15", d.ReminderOpenDate.Format(dateutil.DateLayout))
	assert.Equal(t, 2025, d.DueYear)
	assert.Equal(t, 2024, d.Year)
	assert.Equal(t, "Q4 2024", d.PeriodLabel)
}

func TestGenerate_CustomWindowsAndForms(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	cfg.ReminderWindowDays = &domain.ReminderWindowDays{Quarterly: 10, Annual: 45}
	cfg.FormCodes = &domain.FormCodes{QuarterlyVAT: "VAT-Q", AnnualDeclaration: "D-100"}

	deadlines := NewScheduler(cfg).Generate(2023)

	vat, ok := Find(deadlines, "2023-VAT-Q-Q2")
	require.True(t, ok)
	assert.Equal(t, "2023-07-10", vat.ReminderOpenDate.Format(dateutil.DateLayout))
	assert.Contains(t, vat.Title, "Form VAT-Q")

	annual, ok := Find(deadlines, "2023-D-100")
	require.True(t, ok)
	assert.Equal(t, "2024-05-16", annual.ReminderOpenDate.Format(dateutil.DateLayout))

	// unset codes keep their defaults
	_, ok = Find(deadlines, "2023-130-Q1")
	assert.True(t, ok)
	_, ok = Find(deadlines, "2023-102")
	assert.True(t, ok)
}

func TestDeriveStatus(t *testing.T) {
	due := dateutil.Date(2024, time.April, 20)

	tests := []struct {
		name     string
		today    time.Time
		filed    bool
		expected domain.DeadlineStatus
	}{
		{"before due", dateutil.Date(2024, time.April, 19), false, domain.StatusPending},
		{"on due date", due, false, domain.StatusPending},
		{"late on due date is still pending", due.Add(23 * time.Hour), false, domain.StatusPending},
		{"day after due", dateutil.Date(2024, time.April, 21), false, domain.StatusOverdue},
		{"filed early", dateutil.Date(2024, time.April, 1), true, domain.StatusCompleted},
		{"filed late", dateutil.Date(2024, time.May, 1), true, domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStatus(tt.today, due, tt.filed))
			// same inputs, same answer
			assert.Equal(t, DeriveStatus(tt.today, due, tt.filed), DeriveStatus(tt.today, due, tt.filed))
		})
	}
}

func TestCalendar_StatusesForToday(t *testing.T) {
	today := dateutil.Date(2024, time.July, 21)
	deadlines := defaultScheduler().Calendar(2024, today, map[string]bool{"2024-303-Q1": true})

	byID := map[string]domain.FiscalDeadline{}
	for _, d := range deadlines {
		byID[d.ID] = d
	}
	assert.Equal(t, domain.StatusCompleted, byID["2024-303-Q1"].Status)
	assert.True(t, byID["2024-303-Q1"].IsFiled)
	assert.Equal(t, domain.StatusOverdue, byID["2024-130-Q1"].Status)
	assert.Equal(t, domain.StatusOverdue, byID["2024-303-Q2"].Status)
	assert.Equal(t, domain.StatusOverdue, byID["2024-102"].Status)
	assert.Equal(t, domain.StatusPending, byID["2024-303-Q3"].Status)
	assert.Equal(t, domain.StatusPending, byID["2024-100"].Status)

	overdue := Overdue(deadlines)
	assert.Len(t, overdue, 4)
}

func TestApplyFilings_IgnoresStoredStatus(t *testing.T) {
	deadlines := defaultScheduler().Generate(2024)
	deadlines[0].Status = domain.StatusCompleted

	out := ApplyFilings(deadlines, nil, dateutil.Date(2024, time.January, 1))
	assert.Equal(t, domain.StatusPending, out[0].Status)
	// input is not mutated
	assert.Equal(t, domain.StatusCompleted, deadlines[0].Status)
}

func TestMarkFiled(t *testing.T) {
	today := dateutil.Date(2024, time.May, 2)
	deadlines := defaultScheduler().Calendar(2024, today, nil)

	before, _ := Find(deadlines, "2024-303-Q1")
	require.Equal(t, domain.StatusOverdue, before.Status)

	filed, err := MarkFiled(deadlines, "2024-303-Q1", true, today)
	require.NoError(t, err)
	after, _ := Find(filed, "2024-303-Q1")
	assert.Equal(t, domain.StatusCompleted, after.Status)
	assert.True(t, after.IsFiled)

	undone, err := MarkFiled(filed, "2024-303-Q1", false, today)
	require.NoError(t, err)
	reverted, _ := Find(undone, "2024-303-Q1")
	assert.Equal(t, domain.StatusOverdue, reverted.Status)

	_, err = MarkFiled(deadlines, "2024-999-Q9", true, today)
	assert.ErrorIs(t, err, domain.ErrDeadlineNotFound)
}

func TestFiscalYearOf(t *testing.T) {
	tests := []struct {
		id       string
		expected int
		wantErr  bool
	}{
		{"2024-303-Q1", 2024, false},
		{"2023-100", 2023, false},
		{"24-303-Q1", 0, true},
		{"abcd-303", 0, true},
		{"2024", 0, true},
	}
	for _, tt := range tests {
		year, err := FiscalYearOf(tt.id)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrDeadlineNotFound, tt.id)
			continue
		}
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.expected, year)
	}
}

func TestQuarterlyDueDate_FromQuarterEnd(t *testing.T) {
	tests := []struct {
		q       int
		dueYear int
		due     time.Time
	}{
		{1, 2024, dateutil.Date(2024, time.April, 20)},
		{2, 2024, dateutil.Date(2024, time.July, 20)},
		{3, 2024, dateutil.Date(2024, time.October, 20)},
		{4, 2025, dateutil.Date(2025, time.January, 30)},
	}

	for _, tt := range tests {
		dueYear, due := quarterlyDueDate(2024, tt.q)
		assert.Equal(t, tt.dueYear, dueYear, "Q%d", tt.q)
		assert.Equal(t, tt.due, due, "Q%d", tt.q)
		assert.True(t, due.After(dateutil.QuarterEnd(2024, tt.q)))
	}
}
