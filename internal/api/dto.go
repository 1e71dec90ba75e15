package api

import (
	"github.com/rpgo/fiscal-engine/internal/domain"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SummaryRequest carries one year's period figures.
type SummaryRequest struct {
	Year    int                    `json:"year"`
	Periods []domain.PeriodFigures `json:"periods"`
}

// FilingResponse echoes the deadline after a filing change.
type FilingResponse struct {
	RecordID string                `json:"record_id"`
	Deadline domain.FiscalDeadline `json:"deadline"`
}
