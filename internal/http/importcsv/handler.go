package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	httpexpense "github.com/MrJamesThe3rd/spendlens/internal/http/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/http/render"
	"github.com/MrJamesThe3rd/spendlens/internal/importer"
	"github.com/MrJamesThe3rd/spendlens/internal/ledger"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	ledger    *ledger.Ledger
	conv      currency.Converter
}

func NewHandler(importSvc *importer.Service, l *ledger.Ledger, conv currency.Converter) *Handler {
	return &Handler{
		importSvc: importSvc,
		ledger:    l,
		conv:      conv,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Format      string                 `json:"format"`
	Charset     string                 `json:"charset"`
	Imported    int                    `json:"imported"`
	Skipped     int                    `json:"skipped"`
	Categorized int                    `json:"categorized"`
	Expenses    []httpexpense.Response `json:"expenses"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = importer.FormatAuto
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	owner := render.Owner(r)

	result, err := h.importSvc.Parse(r.Context(), owner, file, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	es, err := h.ledger.Import(r.Context(), owner, result.Entries)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, importResponse{
		Format:      result.Profile,
		Charset:     result.Charset,
		Imported:    len(es),
		Skipped:     result.Skipped,
		Categorized: result.Categorized,
		Expenses:    httpexpense.ToResponseList(es, h.conv),
	})
}
