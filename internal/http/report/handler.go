package report

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/http/render"
	"github.com/MrJamesThe3rd/spendlens/internal/ledger"
	"github.com/MrJamesThe3rd/spendlens/internal/report"
)

type Handler struct {
	ledger *ledger.Ledger
	conv   currency.Converter
}

func NewHandler(l *ledger.Ledger, conv currency.Converter) *Handler {
	return &Handler{ledger: l, conv: conv}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary.md", h.summary)
	r.Get("/insights.md", h.insights)
	r.Get("/charts/category.png", h.chart(report.CategoryChart))
	r.Get("/charts/monthly.png", h.chart(report.MonthlyChart))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.ledger.Summary(r.Context(), render.Owner(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteSummary(&buf, s, h.conv); err != nil {
		render.Error(w, r, err)
		return
	}

	write(w, "text/markdown; charset=utf-8", &buf)
}

// insights uses the finished analysis when there is one and otherwise
// analyses the current expenses without touching the session.
func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	owner := render.Owner(r)

	var rep analytics.Report

	if st := h.ledger.Analysis(owner); st.State == analytics.StateReady && st.Report != nil {
		rep = *st.Report
	} else {
		es, err := h.ledger.Expenses(r.Context(), owner, expense.ListFilter{})
		if err != nil {
			render.Error(w, r, err)
			return
		}

		rep = analytics.Analyze(es)
	}

	var buf bytes.Buffer
	if err := report.WriteInsights(&buf, rep, h.conv); err != nil {
		render.Error(w, r, err)
		return
	}

	write(w, "text/markdown; charset=utf-8", &buf)
}

func (h *Handler) chart(draw func(io.Writer, analytics.Summary) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.ledger.Summary(r.Context(), render.Owner(r))
		if err != nil {
			render.Error(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := draw(&buf, s); err != nil {
			if errors.Is(err, report.ErrNoData) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}

			render.Error(w, r, err)

			return
		}

		write(w, "image/png", &buf)
	}
}

func write(w http.ResponseWriter, contentType string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
