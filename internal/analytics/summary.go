// Package analytics turns a snapshot of expenses into aggregate summaries and
// heuristic per-category savings recommendations. Every function here is a pure
// function of its input; nothing is cached between calls.
package analytics

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

// Summary holds running totals over a full expense collection.
// Total always equals the sum of ByCategory and the sum of ByMonth.
type Summary struct {
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
	ByMonth    map[string]decimal.Decimal
}

// ComputeSummary aggregates expenses in a single pass. An empty collection
// yields a zero total and empty maps.
func ComputeSummary(expenses []*expense.Expense) Summary {
	s := Summary{
		Total:      decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
		ByMonth:    make(map[string]decimal.Decimal),
	}

	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Amount)

		month := e.Month()
		s.ByMonth[month] = s.ByMonth[month].Add(e.Amount)
	}

	return s
}

// Categories returns the category names present in the summary, sorted.
func (s Summary) Categories() []string {
	return slices.Sorted(maps.Keys(s.ByCategory))
}

// Months returns the YYYY-MM keys in calendar order.
func (s Summary) Months() []string {
	return slices.Sorted(maps.Keys(s.ByMonth))
}

// IsEmpty reports whether the summary was built from no expenses.
func (s Summary) IsEmpty() bool {
	return len(s.ByCategory) == 0
}

// TopCategory returns the category with the largest total. Ties resolve to the
// alphabetically first name.
func (s Summary) TopCategory() (string, decimal.Decimal, bool) {
	var (
		name  string
		total decimal.Decimal
		found bool
	)

	for _, c := range s.Categories() {
		if v := s.ByCategory[c]; !found || v.GreaterThan(total) {
			name, total, found = c, v, true
		}
	}

	return name, total, found
}
