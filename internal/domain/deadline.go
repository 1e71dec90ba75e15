package domain

import (
	"time"
)

// ObligationType classifies a recurring statutory filing
type ObligationType string

const (
	ObligationQuarterlyVAT       ObligationType = "quarterly_vat"
	ObligationQuarterlyIncomeTax ObligationType = "quarterly_income_tax"
	ObligationAnnualDeclaration  ObligationType = "annual_declaration"
	ObligationInstallment        ObligationType = "installment_payment"
)

// DeadlineStatus is derived from the due date, "today" and the filed flag; it is never stored.
type DeadlineStatus string

const (
	StatusPending   DeadlineStatus = "pending"
	StatusCompleted DeadlineStatus = "completed"
	StatusOverdue   DeadlineStatus = "overdue"
)

// FiscalDeadline is one obligation in a year's calendar.
//
// Year is the fiscal year the obligation belongs to; DueYear is the calendar
// year of DueDate. They differ for the Q4 filings and the annual declaration.
type FiscalDeadline struct {
	ID               string         `json:"id"`
	FormCode         string         `json:"form_code"`
	Title            string         `json:"title"`
	Obligation       ObligationType `json:"obligation_type"`
	PeriodLabel      string         `json:"period_label"`
	Year             int            `json:"year"`
	DueYear          int            `json:"due_year"`
	Quarter          int            `json:"quarter,omitempty"`
	DueDate          time.Time      `json:"due_date"`
	ReminderOpenDate time.Time      `json:"reminder_open_date"`
	Status           DeadlineStatus `json:"status"`
	IsFiled          bool           `json:"is_filed"`
}

// Priority ranks how urgently a reminder needs attention
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Reminder is an ephemeral, human-readable nudge derived from a deadline and "today"
type Reminder struct {
	DeadlineID   string    `json:"deadline_id"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"due_date"`
	Message      string    `json:"message"`
	Priority     Priority  `json:"priority"`
	DaysUntilDue int       `json:"days_until_due"`
}
