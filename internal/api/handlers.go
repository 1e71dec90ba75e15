package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rpgo/fiscal-engine/internal/calculation"
	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/internal/schedule"
	"github.com/rpgo/fiscal-engine/internal/store"
	"github.com/rpgo/fiscal-engine/pkg/dateutil"
	"github.com/rpgo/fiscal-engine/pkg/logger"
)

const msgInvalidConfiguration = "unable to compute: invalid configuration"

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Rules   *domain.Configuration
	Engine  *calculation.TaxEngine
	Tracker *schedule.Tracker
	Store   store.FilingStore
	Log     *logger.Logger

	// Now supplies the default "today"; tests pin it.
	Now func() time.Time

	// configErr is set when Rules failed validation; computation routes refuse to run.
	configErr error
}

// NewHandler builds a handler around rules and a filing store. An invalid rule
// set does not stop the server; calendar routes keep working and computation
// routes answer 422.
func NewHandler(rules *domain.Configuration, st store.FilingStore, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if st == nil {
		st = store.NewMemory()
	}
	h := &Handler{
		Rules: rules,
		Store: st,
		Log:   log,
		Now:   time.Now,
	}
	engine, err := calculation.NewTaxEngine(rules)
	if err != nil {
		log.Warn().Err(err).Msg("rule set rejected")
		h.configErr = err
	} else {
		engine.SetLogger(log)
		h.Engine = engine
	}

	scheduleRules := rules
	if err != nil {
		scheduleRules = nil
	}
	h.Tracker = schedule.NewTracker(schedule.NewScheduler(scheduleRules), st)
	return h
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetRules returns the rule set in use.
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	if h.configErr != nil {
		writeError(w, http.StatusUnprocessableEntity, msgInvalidConfiguration, h.configErr)
		return
	}
	writeJSON(w, http.StatusOK, h.Rules)
}

// CalculateTax computes one period.
func (h *Handler) CalculateTax(w http.ResponseWriter, r *http.Request) {
	if h.configErr != nil {
		writeError(w, http.StatusUnprocessableEntity, msgInvalidConfiguration, h.configErr)
		return
	}
	var figures domain.PeriodFigures
	if err := json.NewDecoder(r.Body).Decode(&figures); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Engine.Calculate(figures))
}

// Summarize computes and aggregates a year of periods.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	if h.configErr != nil {
		writeError(w, http.StatusUnprocessableEntity, msgInvalidConfiguration, h.configErr)
		return
	}
	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		req.Year = h.today().Year()
	}
	summary, err := h.Engine.Summarize(r.Context(), req.Year, req.Periods)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize periods", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ListDeadlines returns a year's calendar with statuses for today.
func (h *Handler) ListDeadlines(w http.ResponseWriter, r *http.Request) {
	today, year, err := h.dateParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query", err)
		return
	}
	deadlines, err := h.Tracker.Calendar(r.Context(), year, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load deadlines", err)
		return
	}
	writeJSON(w, http.StatusOK, deadlines)
}

// ListReminders returns the reminder feed for today.
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	today, year, err := h.dateParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query", err)
		return
	}
	reminders, err := h.Tracker.FeedForYear(r.Context(), year, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load reminders", err)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

// MarkFiled records a filing for a deadline.
func (h *Handler) MarkFiled(w http.ResponseWriter, r *http.Request) {
	h.setFiled(w, r, true)
}

// UnmarkFiled records that a filing was undone.
func (h *Handler) UnmarkFiled(w http.ResponseWriter, r *http.Request) {
	h.setFiled(w, r, false)
}

func (h *Handler) setFiled(w http.ResponseWriter, r *http.Request, filed bool) {
	id := chi.URLParam(r, "id")
	today, _, err := h.dateParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query", err)
		return
	}

	year, err := schedule.FiscalYearOf(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Deadline not found", err)
		return
	}
	deadline, ok := schedule.Find(h.Tracker.Scheduler.Generate(year), id)
	if !ok {
		writeError(w, http.StatusNotFound, "Deadline not found", fmt.Errorf("%w: %s", domain.ErrDeadlineNotFound, id))
		return
	}

	rec := store.NewFilingRecord(id, year, filed, h.Now())
	if err := h.Store.SetFiled(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record filing", err)
		return
	}
	h.Log.Info().Str("deadline_id", id).Bool("filed", filed).Msg("filing recorded")

	deadline.IsFiled = filed
	deadline.Status = schedule.DeriveStatus(today, deadline.DueDate, filed)
	writeJSON(w, http.StatusOK, FilingResponse{RecordID: rec.ID, Deadline: deadline})
}

func (h *Handler) today() time.Time {
	return dateutil.DateOnly(h.Now())
}

// dateParams reads ?today=YYYY-MM-DD and ?year=YYYY; year defaults to today's year.
func (h *Handler) dateParams(r *http.Request) (time.Time, int, error) {
	today := h.today()
	if s := r.URL.Query().Get("today"); s != "" {
		t, err := dateutil.ParseDate(s)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("today: %w", err)
		}
		today = t
	}
	year := today.Year()
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 {
			return time.Time{}, 0, errors.New("year must be a positive integer")
		}
		year = y
	}
	return today, year, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
