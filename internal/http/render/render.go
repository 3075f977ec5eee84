// Package render holds the response helpers shared by the v1 handlers.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/spendlens/internal/auth"
	"github.com/MrJamesThe3rd/spendlens/internal/category"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/matching"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error maps domain errors to status codes. Unknown errors are logged and
// reported as 500 without their message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case expense.IsValidationError(err),
		errors.Is(err, category.ErrEmptyName),
		errors.Is(err, currency.ErrUnsupportedCurrency),
		errors.Is(err, matching.ErrEmptyPattern),
		errors.Is(err, matching.ErrEmptyCategory):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, expense.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Owner returns the owner resolved by auth.Middleware.
func Owner(r *http.Request) string {
	owner, ok := auth.OwnerFrom(r.Context())
	if !ok {
		return auth.LocalOwner
	}

	return owner
}
