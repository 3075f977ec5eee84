// Package seed provides the demo expenses loaded by `spendlens seed`.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

type demo struct {
	amount, category, date, description string
}

var demoExpenses = []demo{
	{"45.99", "Food & Dining", "2023-06-15", "Grocery shopping"},
	{"12.50", "Entertainment", "2023-06-17", "Movie ticket"},
	{"65.00", "Transportation", "2023-06-12", "Gas refill"},
	{"129.99", "Shopping", "2023-06-10", "New shoes"},
	{"35.20", "Food & Dining", "2023-05-28", "Restaurant dinner"},
	{"89.99", "Utilities", "2023-05-25", "Electricity bill"},
	{"199.00", "Healthcare", "2023-06-05", "Doctor appointment"},
	{"49.99", "Entertainment", "2023-05-20", "Video game"},
}

// Demo returns the demo expenses for owner, in insertion order.
func Demo(owner string) []expense.CreateParams {
	out := make([]expense.CreateParams, len(demoExpenses))

	for i, d := range demoExpenses {
		date, err := time.Parse(time.DateOnly, d.date)
		if err != nil {
			panic(err)
		}

		out[i] = expense.CreateParams{
			Owner:       owner,
			Amount:      decimal.RequireFromString(d.amount),
			Category:    d.category,
			Date:        date,
			Description: d.description,
		}
	}

	return out
}
