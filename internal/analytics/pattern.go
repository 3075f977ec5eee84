package analytics

import (
	"maps"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// stableBand is the fraction of the first-half mean within which a change in
// spend is still considered stable.
const stableBand = 0.1

// SpendingPattern describes one category's monthly spend across every month
// present in the data set, including months where the category had no spend.
type SpendingPattern struct {
	Category   string
	AvgMonthly float64
	Variance   float64
	Trend      Trend
}

// AnalyzePatterns builds a month x category matrix and derives one pattern per
// requested category, in the order given.
//
// The statistics are intentionally coarse: Variance is the population variance
// of the monthly series and Trend compares the means of the two halves of that
// series. Insight scoring thresholds are calibrated against these exact values.
func AnalyzePatterns(expenses []*expense.Expense, categories []string) []SpendingPattern {
	matrix := make(map[string]map[string]decimal.Decimal)

	for _, e := range expenses {
		month := e.Month()
		if matrix[month] == nil {
			matrix[month] = make(map[string]decimal.Decimal)
		}

		matrix[month][e.Category] = matrix[month][e.Category].Add(e.Amount)
	}

	// YYYY-MM sorts lexically in calendar order.
	months := slices.Sorted(maps.Keys(matrix))

	patterns := make([]SpendingPattern, 0, len(categories))

	for _, category := range categories {
		series := make([]float64, len(months))
		for i, month := range months {
			series[i] = matrix[month][category].InexactFloat64()
		}

		avg := mean(series)

		patterns = append(patterns, SpendingPattern{
			Category:   category,
			AvgMonthly: avg,
			Variance:   populationVariance(series, avg),
			Trend:      classifyTrend(series),
		})
	}

	return patterns
}

// mean panics on an empty series: a category only reaches the analyzer when it
// has at least one expense, so an empty series is a programming error.
func mean(series []float64) float64 {
	if len(series) == 0 {
		panic("analytics: mean of empty series")
	}

	var sum float64
	for _, v := range series {
		sum += v
	}

	return sum / float64(len(series))
}

func populationVariance(series []float64, avg float64) float64 {
	if len(series) == 0 {
		panic("analytics: variance of empty series")
	}

	var sum float64
	for _, v := range series {
		d := v - avg
		sum += d * d
	}

	return sum / float64(len(series))
}

// classifyTrend splits the series in two halves, the odd element going to the
// second half, and compares their means.
func classifyTrend(series []float64) Trend {
	if len(series) < 2 {
		return TrendStable
	}

	half := len(series) / 2
	firstAvg := mean(series[:half])
	secondAvg := mean(series[half:])

	diff := secondAvg - firstAvg
	if math.Abs(diff) < firstAvg*stableBand {
		return TrendStable
	}

	if diff > 0 {
		return TrendIncreasing
	}

	return TrendDecreasing
}
