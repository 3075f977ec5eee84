package category

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendlens/internal/http/render"
	"github.com/MrJamesThe3rd/spendlens/internal/ledger"
)

type Handler struct {
	ledger *ledger.Ledger
}

func NewHandler(l *ledger.Ledger) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	names, err := h.ledger.Categories(r.Context(), render.Owner(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, categoriesResponse{Categories: names})
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	Name string `json:"name"`
}

// create returns the stored spelling, which differs from the request when the
// name already exists under another case.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name, err := h.ledger.AddCategory(r.Context(), render.Owner(r), req.Name)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, categoryResponse{Name: name})
}
