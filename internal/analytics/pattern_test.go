package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

func patternFor(t *testing.T, es []*expense.Expense, category string) analytics.SpendingPattern {
	t.Helper()

	patterns := analytics.AnalyzePatterns(es, analytics.ComputeSummary(es).Categories())
	for _, p := range patterns {
		if p.Category == category {
			return p
		}
	}

	require.FailNow(t, "pattern not found", category)

	return analytics.SpendingPattern{}
}

func TestAnalyzePatterns_TwoMonthsDecreasing(t *testing.T) {
	es := []*expense.Expense{
		exp("100", "Food & Dining", "2024-01-15"),
		exp("50", "Food & Dining", "2024-02-10"),
	}

	p := patternFor(t, es, "Food & Dining")

	assert.InDelta(t, 75.0, p.AvgMonthly, 1e-9)
	assert.InDelta(t, 625.0, p.Variance, 1e-9)
	assert.Equal(t, analytics.TrendDecreasing, p.Trend)
}

func TestAnalyzePatterns_ZeroFillsMissingMonths(t *testing.T) {
	es := []*expense.Expense{
		exp("30", "Travel", "2024-01-05"),
		exp("90", "Housing", "2024-02-01"),
		exp("90", "Housing", "2024-03-01"),
	}

	p := patternFor(t, es, "Travel")

	// Series is [30, 0, 0].
	assert.InDelta(t, 10.0, p.AvgMonthly, 1e-9)
	assert.InDelta(t, 200.0, p.Variance, 1e-9)
	assert.Equal(t, analytics.TrendDecreasing, p.Trend)
}

func TestAnalyzePatterns_UsesCalendarOrderNotInsertionOrder(t *testing.T) {
	// Stored newest first; in calendar order the series is [100, 100, 300].
	es := []*expense.Expense{
		exp("300", "Shopping", "2024-03-02"),
		exp("100", "Shopping", "2024-02-02"),
		exp("100", "Shopping", "2024-01-02"),
	}

	p := patternFor(t, es, "Shopping")

	// The odd middle month belongs to the second half: 100 vs mean(100, 300).
	assert.Equal(t, analytics.TrendIncreasing, p.Trend)
}

func TestAnalyzePatterns_StableWithinTenPercent(t *testing.T) {
	es := []*expense.Expense{
		exp("100", "Utilities", "2024-01-10"),
		exp("105", "Utilities", "2024-02-10"),
	}

	assert.Equal(t, analytics.TrendStable, patternFor(t, es, "Utilities").Trend)
}

func TestAnalyzePatterns_SingleMonthIsStable(t *testing.T) {
	es := []*expense.Expense{
		exp("10", "Entertainment", "2024-05-01"),
		exp("400", "Entertainment", "2024-05-20"),
		exp("25", "Healthcare", "2024-05-21"),
	}

	for _, p := range analytics.AnalyzePatterns(es, analytics.ComputeSummary(es).Categories()) {
		assert.Equal(t, analytics.TrendStable, p.Trend, p.Category)
		assert.Zero(t, p.Variance, p.Category)
	}
}

func TestAnalyzePatterns_PreservesCategoryOrder(t *testing.T) {
	es := []*expense.Expense{
		exp("10", "A", "2024-01-01"),
		exp("20", "B", "2024-01-01"),
	}

	patterns := analytics.AnalyzePatterns(es, []string{"B", "A"})
	require.Len(t, patterns, 2)
	assert.Equal(t, "B", patterns[0].Category)
	assert.Equal(t, "A", patterns[1].Category)
}

func TestAnalyzePatterns_EmptySeriesPanics(t *testing.T) {
	assert.Panics(t, func() {
		analytics.AnalyzePatterns(nil, []string{"Ghost"})
	})
}
