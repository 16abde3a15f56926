package handlers

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/PatentVault/internal/application/portfolio"
	"github.com/turtacn/PatentVault/internal/application/reporting"
	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// PortfolioGauge publishes portfolio size whenever statistics are computed.
type PortfolioGauge interface {
	SetPortfolio(byStatus map[string]int, dueAlerts int)
}

// ReminderObserver counts simulated reminder sends.
type ReminderObserver interface {
	ObserveReminder(err error)
}

// PatentHandler serves the portfolio dashboard: records, statistics,
// annuity alerts, the Excel export and reminder notices.
type PatentHandler struct {
	base
	portfolio   portfolio.Service
	reports     reporting.Service
	alertWindow int
	now         func() time.Time
	gauge       PortfolioGauge
	reminders   ReminderObserver
}

// PatentHandlerOption customizes a PatentHandler.
type PatentHandlerOption func(*PatentHandler)

// WithClock overrides time.Now for alerts, exports and reminders.
func WithClock(now func() time.Time) PatentHandlerOption {
	return func(h *PatentHandler) { h.now = now }
}

// WithAlertWindow sets the default annuity alert horizon in days.
func WithAlertWindow(days int) PatentHandlerOption {
	return func(h *PatentHandler) {
		if days > 0 {
			h.alertWindow = days
		}
	}
}

// WithPortfolioGauge reports portfolio size on every stats request.
func WithPortfolioGauge(g PortfolioGauge) PatentHandlerOption {
	return func(h *PatentHandler) { h.gauge = g }
}

// WithReminderObserver reports simulated reminder sends.
func WithReminderObserver(o ReminderObserver) PatentHandlerOption {
	return func(h *PatentHandler) { h.reminders = o }
}

// WithErrorRecorder counts failed requests.
func WithErrorRecorder(e ErrorRecorder) PatentHandlerOption {
	return func(h *PatentHandler) { h.errs = e }
}

// NewPatentHandler creates a new PatentHandler.
func NewPatentHandler(svc portfolio.Service, reports reporting.Service, logger logging.Logger, opts ...PatentHandlerOption) *PatentHandler {
	h := &PatentHandler{
		base:        newBase("patents", logger, nil),
		portfolio:   svc,
		reports:     reports,
		alertWindow: portfolio.DefaultAlertWindowDays,
		now:         time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func filterFrom(r *http.Request) portfolio.Filter {
	q := r.URL.Query()
	return portfolio.Filter{Search: q.Get("q"), Status: q.Get("status")}
}

// List handles GET /patents?q=&status=.
func (h *PatentHandler) List(w http.ResponseWriter, r *http.Request) {
	ps, err := h.portfolio.List(r.Context(), filterFrom(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// Create handles POST /patents.
func (h *PatentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p patent.Patent
	if err := decodeJSON(r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.portfolio.Create(r.Context(), &p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /patents/{id}.
func (h *PatentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.portfolio.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update handles PUT /patents/{id}. The body is the full record; the path
// ID wins over any ID in the body.
func (h *PatentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p patent.Patent
	if err := decodeJSON(r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	p.ID = chi.URLParam(r, "id")
	updated, err := h.portfolio.Update(r.Context(), &p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /patents/{id}.
func (h *PatentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolio.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StatsResponse is the dashboard summary.
type StatsResponse struct {
	*portfolio.Stats
	AlertCount  int `json:"alertCount"`
	AlertWindow int `json:"alertWindowDays"`
}

// Stats handles GET /patents/stats.
func (h *PatentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.portfolio.Stats(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	due, err := h.portfolio.AlertCount(ctx, h.now(), h.alertWindow)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.gauge != nil {
		h.gauge.SetPortfolio(stats.ByStatus, due)
	}
	writeJSON(w, http.StatusOK, StatsResponse{Stats: stats, AlertCount: due, AlertWindow: h.alertWindow})
}

// Alerts handles GET /patents/alerts?within=N.
func (h *PatentHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.portfolio.Alerts(r.Context(), h.now(), queryInt(r, "within", h.alertWindow))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// Export handles GET /patents/export?q=&status=. The workbook is rendered
// in full before any byte is written so that a failure still yields JSON.
func (h *PatentHandler) Export(w http.ResponseWriter, r *http.Request) {
	ps, err := h.portfolio.List(r.Context(), filterFrom(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.reports.ExportXLSX(&buf, ps); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", reporting.ExportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+reporting.ExportFileName(h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *PatentHandler) load(ctx context.Context, r *http.Request) (*patent.Patent, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return nil, errors.InvalidParam("patent id is required")
	}
	return h.portfolio.Get(ctx, id)
}

// Reminder handles GET /patents/{id}/reminder. With ?format=text the notice
// is returned as plain text ready to paste into a mail client.
func (h *PatentHandler) Reminder(w http.ResponseWriter, r *http.Request) {
	p, err := h.load(r.Context(), r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rem, err := h.reports.ReminderPreview(p, h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(rem.PlainText()))
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

// SendReminder handles POST /patents/{id}/reminder/send.
func (h *PatentHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.load(ctx, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.reports.SendReminder(ctx, p, h.now())
	if h.reminders != nil {
		h.reminders.ObserveReminder(err)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

//Personal.AI order the ending
