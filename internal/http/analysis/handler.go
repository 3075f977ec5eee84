package analysis

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/http/render"
	"github.com/MrJamesThe3rd/spendlens/internal/ledger"
)

type Handler struct {
	ledger *ledger.Ledger
	conv   currency.Converter
}

func NewHandler(l *ledger.Ledger, conv currency.Converter) *Handler {
	return &Handler{ledger: l, conv: conv}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.start)
	r.Get("/", h.status)
	r.Delete("/", h.cancel)
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	owner := render.Owner(r)

	if err := h.ledger.StartAnalysis(r.Context(), owner); err != nil {
		if errors.Is(err, analytics.ErrAnalysisInProgress) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		render.Error(w, r, err)

		return
	}

	render.JSON(w, http.StatusAccepted, toResponse(h.ledger.Analysis(owner), h.conv))
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, toResponse(h.ledger.Analysis(render.Owner(r)), h.conv))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	if !h.ledger.CancelAnalysis(render.Owner(r)) {
		http.Error(w, "no analysis in progress", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type insightResponse struct {
	Category         string   `json:"category"`
	CurrentSpending  float64  `json:"current_spending"`
	SuggestedBudget  float64  `json:"suggested_budget"`
	PotentialSavings float64  `json:"potential_savings"`
	SavingsDisplay   string   `json:"savings_display"`
	Confidence       int      `json:"confidence"`
	Tips             []string `json:"tips"`
}

type reportResponse struct {
	Insights              []insightResponse `json:"insights"`
	TotalPotentialSavings float64           `json:"total_potential_savings"`
	TotalDisplay          string            `json:"total_display"`
}

type statusResponse struct {
	State       analytics.State `json:"state"`
	Report      *reportResponse `json:"report,omitempty"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func toResponse(st analytics.Status, conv currency.Converter) statusResponse {
	resp := statusResponse{State: st.State}

	if !st.StartedAt.IsZero() {
		resp.StartedAt = new(st.StartedAt)
	}

	if !st.CompletedAt.IsZero() {
		resp.CompletedAt = new(st.CompletedAt)
	}

	if st.Report != nil {
		rep := reportResponse{
			Insights:              make([]insightResponse, len(st.Report.Insights)),
			TotalPotentialSavings: st.Report.TotalPotentialSavings,
			TotalDisplay:          conv.FormatFloat(st.Report.TotalPotentialSavings),
		}

		for i, in := range st.Report.Insights {
			rep.Insights[i] = insightResponse{
				Category:         in.Category,
				CurrentSpending:  in.CurrentSpending,
				SuggestedBudget:  in.SuggestedBudget,
				PotentialSavings: in.PotentialSavings,
				SavingsDisplay:   conv.FormatFloat(in.PotentialSavings),
				Confidence:       in.Confidence,
				Tips:             in.Tips,
			}
		}

		resp.Report = &rep
	}

	return resp
}
