/*
Package api exposes the fiscal engine over HTTP.

ROUTES:

	GET    /healthz                      liveness
	GET    /api/rules                    rule set in use
	POST   /api/tax                      TaxResult for one period's figures
	POST   /api/summary                  AnnualSummary for a year's periods
	GET    /api/deadlines?year=&today=   obligation calendar with statuses
	GET    /api/reminders?year=&today=   reminder feed
	POST   /api/deadlines/{id}/filed     mark a deadline filed
	DELETE /api/deadlines/{id}/filed     undo a filing

"today" defaults to the server's current date. Computation routes answer
422 when the loaded rule set is invalid.
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rpgo/fiscal-engine/pkg/logger"
)

// NewRouter wires middleware and routes around h.
func NewRouter(h *Handler, log *logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/rules", h.GetRules)
		r.Post("/tax", h.CalculateTax)
		r.Post("/summary", h.Summarize)
		r.Get("/reminders", h.ListReminders)

		r.Route("/deadlines", func(r chi.Router) {
			r.Get("/", h.ListDeadlines)
			r.Post("/{id}/filed", h.MarkFiled)
			r.Delete("/{id}/filed", h.UnmarkFiled)
		})
	})

	return r
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
