package summary

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

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
	r.Get("/", h.get)
}

type bucketResponse struct {
	Key     string          `json:"key"`
	Amount  decimal.Decimal `json:"amount"`
	Display string          `json:"display"`
}

type summaryResponse struct {
	Total        decimal.Decimal  `json:"total"`
	TotalDisplay string           `json:"total_display"`
	Currency     string           `json:"currency"`
	ByCategory   []bucketResponse `json:"by_category"`
	ByMonth      []bucketResponse `json:"by_month"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.ledger.Summary(r.Context(), render.Owner(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(s, h.conv))
}

func toResponse(s analytics.Summary, conv currency.Converter) summaryResponse {
	buckets := func(keys []string, m map[string]decimal.Decimal) []bucketResponse {
		out := make([]bucketResponse, len(keys))
		for i, k := range keys {
			out[i] = bucketResponse{Key: k, Amount: m[k], Display: conv.Format(m[k])}
		}

		return out
	}

	return summaryResponse{
		Total:        s.Total,
		TotalDisplay: conv.Format(s.Total),
		Currency:     conv.Display,
		ByCategory:   buckets(s.Categories(), s.ByCategory),
		ByMonth:      buckets(s.Months(), s.ByMonth),
	}
}
