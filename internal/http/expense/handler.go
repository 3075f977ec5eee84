package expense

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
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
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.replace)
	r.Delete("/{id}", h.delete)
}

// expenseRequest is the full set of editable fields. Amount is in the
// currency named by the currency query parameter, or the base currency.
type expenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

func (h *Handler) decode(r *http.Request) (expense.CreateParams, error) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return expense.CreateParams{}, err
	}

	amount, err := h.conv.Convert(req.Amount, r.URL.Query().Get("currency"))
	if err != nil {
		return expense.CreateParams{}, err
	}

	params := expense.CreateParams{
		Owner:       render.Owner(r),
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
	}

	if req.Date != "" {
		d, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			return expense.CreateParams{}, fmt.Errorf("invalid date %q", req.Date)
		}

		params.Date = d
	}

	return params, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	params, err := h.decode(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.ledger.Add(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(e, h.conv))
}

// Filter reads the category, q, start_date and end_date query parameters.
// Malformed dates are ignored.
func Filter(r *http.Request) expense.ListFilter {
	q := r.URL.Query()
	filter := expense.ListFilter{Search: q.Get("q")}

	if s := q.Get("category"); s != "" {
		filter.Category = new(s)
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	return filter
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	es, err := h.ledger.Expenses(r.Context(), render.Owner(r), Filter(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, ToResponseList(es, h.conv))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.ledger.Expense(r.Context(), render.Owner(r), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e, h.conv))
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	params, err := h.decode(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.ledger.Edit(r.Context(), params.Owner, id, params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e, h.conv))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.ledger.Remove(r.Context(), render.Owner(r), id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
