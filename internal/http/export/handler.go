package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendlens/internal/export"
	httpexpense "github.com/MrJamesThe3rd/spendlens/internal/http/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/http/render"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download accepts the same filters as the expense list.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer

	res, err := h.svc.Export(r.Context(), &buf, render.Owner(r), httpexpense.Filter(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.svc.Filename()))
	w.Header().Set("X-Expense-Count", strconv.Itoa(res.Expenses))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write archive", "error", err)
	}
}
