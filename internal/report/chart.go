package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
)

var ErrNoData = errors.New("no data to chart")

const (
	chartWidth  = 800
	chartHeight = 400
)

// CategoryChart renders the category split of s as a PNG pie chart.
func CategoryChart(w io.Writer, s analytics.Summary) error {
	if s.IsEmpty() {
		return ErrNoData
	}

	var values []chart.Value
	for _, c := range s.Categories() {
		values = append(values, chart.Value{
			Label: c,
			Value: s.ByCategory[c].InexactFloat64(),
		})
	}

	pie := chart.PieChart{
		Title:  "Spending by category",
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}

	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering category chart: %w", err)
	}

	return nil
}

// MonthlyChart renders monthly totals of s, oldest first, as a PNG bar chart.
func MonthlyChart(w io.Writer, s analytics.Summary) error {
	if s.IsEmpty() {
		return ErrNoData
	}

	var (
		bars []chart.Value
		peak float64
	)

	for _, m := range s.Months() {
		v := s.ByMonth[m].InexactFloat64()
		peak = max(peak, v)
		bars = append(bars, chart.Value{Label: m, Value: v})
	}

	bar := chart.BarChart{
		Title: "Spending by month",
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Bars:     bars,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}

				return ""
			},
		},
	}

	if err := bar.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering monthly chart: %w", err)
	}

	return nil
}
