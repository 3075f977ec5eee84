package view

import "time"

// Timeframe is a date range preset for the expense list.
type Timeframe int

const (
	TimeframeAll Timeframe = iota
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisYear

	timeframeCount
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	}

	return "Unknown"
}

func (t Timeframe) Next() Timeframe {
	return (t + 1) % timeframeCount
}

// Range returns inclusive UTC calendar dates. ok is false for TimeframeAll.
func (t Timeframe) Range(now time.Time) (start, end time.Time, ok bool) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch t {
	case TimeframeThisMonth:
		return first, first.AddDate(0, 1, -1), true
	case TimeframeLastMonth:
		return first.AddDate(0, -1, 0), first.AddDate(0, 0, -1), true
	case TimeframeThisYear:
		jan := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return jan, jan.AddDate(1, 0, -1), true
	}

	return time.Time{}, time.Time{}, false
}
