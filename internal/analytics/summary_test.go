package analytics_test

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

func exp(amount, category, date string) *expense.Expense {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}

	return &expense.Expense{
		ID:          uuid.New(),
		Owner:       "owner",
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Date:        d,
		Description: category + " on " + date,
	}
}

func sum(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}

	return total
}

func randomExpenses(r *rand.Rand, n int) []*expense.Expense {
	categories := []string{"Food & Dining", "Shopping", "Housing", "Travel", "Misc"}
	es := make([]*expense.Expense, n)

	for i := range es {
		cents := r.IntN(50000) + 1
		date := time.Date(2023+r.IntN(2), time.Month(r.IntN(12)+1), r.IntN(28)+1, 0, 0, 0, 0, time.UTC)
		es[i] = exp(decimal.New(int64(cents), -2).String(), categories[r.IntN(len(categories))], date.Format(time.DateOnly))
	}

	return es
}

func TestComputeSummary_Empty(t *testing.T) {
	s := analytics.ComputeSummary(nil)

	assert.True(t, s.Total.IsZero())
	assert.NotNil(t, s.ByCategory)
	assert.NotNil(t, s.ByMonth)
	assert.Empty(t, s.ByCategory)
	assert.Empty(t, s.ByMonth)
	assert.True(t, s.IsEmpty())
}

func TestComputeSummary_Totals(t *testing.T) {
	es := []*expense.Expense{
		exp("45.99", "Food & Dining", "2023-06-15"),
		exp("12.50", "Entertainment", "2023-06-17"),
		exp("35.20", "Food & Dining", "2023-05-28"),
		exp("49.99", "Entertainment", "2023-05-20"),
	}

	s := analytics.ComputeSummary(es)

	assert.Equal(t, "143.68", s.Total.StringFixed(2))
	assert.Equal(t, "81.19", s.ByCategory["Food & Dining"].StringFixed(2))
	assert.Equal(t, "62.49", s.ByCategory["Entertainment"].StringFixed(2))
	assert.Equal(t, "58.49", s.ByMonth["2023-06"].StringFixed(2))
	assert.Equal(t, "85.19", s.ByMonth["2023-05"].StringFixed(2))
	assert.Equal(t, []string{"2023-05", "2023-06"}, s.Months())
	assert.Equal(t, []string{"Entertainment", "Food & Dining"}, s.Categories())
}

func TestComputeSummary_TotalsAgree(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))

	for i := range 50 {
		t.Run(fmt.Sprintf("run-%d", i), func(t *testing.T) {
			es := randomExpenses(r, r.IntN(40)+1)

			want := decimal.Zero
			for _, e := range es {
				want = want.Add(e.Amount)
			}

			s := analytics.ComputeSummary(es)
			assert.True(t, want.Equal(s.Total))
			assert.True(t, s.Total.Equal(sum(s.ByCategory)))
			assert.True(t, s.Total.Equal(sum(s.ByMonth)))
		})
	}
}

func TestComputeSummary_Idempotent(t *testing.T) {
	es := randomExpenses(rand.New(rand.NewPCG(1, 2)), 25)

	assert.Equal(t, analytics.ComputeSummary(es), analytics.ComputeSummary(es))
}

func TestComputeSummary_EditOnlyTouchesAffectedBuckets(t *testing.T) {
	es := []*expense.Expense{
		exp("100", "Food & Dining", "2024-01-15"),
		exp("40", "Shopping", "2024-02-10"),
		exp("60", "Travel", "2024-03-01"),
	}

	before := analytics.ComputeSummary(es)

	edited := *es[1]
	edited.Amount = decimal.RequireFromString("55.5")
	es[1] = &edited

	after := analytics.ComputeSummary(es)

	assert.Equal(t, "215.5", after.Total.String())
	assert.Equal(t, "55.5", after.ByCategory["Shopping"].String())
	assert.Equal(t, "55.5", after.ByMonth["2024-02"].String())

	for _, c := range []string{"Food & Dining", "Travel"} {
		assert.True(t, before.ByCategory[c].Equal(after.ByCategory[c]), c)
	}

	for _, m := range []string{"2024-01", "2024-03"} {
		assert.True(t, before.ByMonth[m].Equal(after.ByMonth[m]), m)
	}
}

func TestSummary_TopCategory(t *testing.T) {
	_, _, ok := analytics.ComputeSummary(nil).TopCategory()
	assert.False(t, ok)

	s := analytics.ComputeSummary([]*expense.Expense{
		exp("10", "Shopping", "2024-01-01"),
		exp("30", "Housing", "2024-01-02"),
		exp("25", "Shopping", "2024-01-03"),
	})

	name, total, ok := s.TopCategory()
	require.True(t, ok)
	assert.Equal(t, "Shopping", name)
	assert.Equal(t, "35", total.String())
}
