package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

// Response is the JSON form of an expense. Amount is in the base currency.
type Response struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Display     string          `json:"display"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(e *expense.Expense, conv currency.Converter) Response {
	return Response{
		ID:          e.ID,
		Amount:      e.Amount,
		Display:     conv.Format(e.Amount),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.Format(time.DateOnly),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ToResponseList renders expenses the way the expenses endpoints do.
func ToResponseList(es []*expense.Expense, conv currency.Converter) []Response {
	resp := make([]Response, len(es))
	for i, e := range es {
		resp[i] = toResponse(e, conv)
	}

	return resp
}
