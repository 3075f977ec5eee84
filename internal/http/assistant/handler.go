package assistant

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendlens/internal/assistant"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/http/render"
	"github.com/MrJamesThe3rd/spendlens/internal/ledger"
)

type Handler struct {
	ledger *ledger.Ledger
	svc    *assistant.Service
	conv   currency.Converter
}

func NewHandler(l *ledger.Ledger, svc *assistant.Service, conv currency.Converter) *Handler {
	return &Handler{ledger: l, svc: svc, conv: conv}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.ask)
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Reply string `json:"reply"`
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	es, err := h.ledger.Expenses(r.Context(), render.Owner(r), expense.ListFilter{})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	reply := h.svc.Reply(r.Context(), assistant.NewContext(es, h.conv), req.Query)

	render.JSON(w, http.StatusOK, askResponse{Reply: reply})
}
