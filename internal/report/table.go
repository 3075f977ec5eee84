// Package report renders summaries and savings insights as markdown tables and
// PNG charts.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
)

func markdownTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	return table
}

func share(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "0.0%"
	}

	return part.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// WriteSummary writes the category and month breakdowns of s.
func WriteSummary(w io.Writer, s analytics.Summary, conv currency.Converter) error {
	if _, err := fmt.Fprintf(w, "## Spending summary\n\nTotal: %s\n\n### By category\n\n", conv.Format(s.Total)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	categories := markdownTable(w, []string{"Category", "Amount", "Share"})
	for _, c := range s.Categories() {
		amount := s.ByCategory[c]
		categories.Append([]string{c, conv.Format(amount), share(amount, s.Total)})
	}

	categories.Render()

	if _, err := io.WriteString(w, "\n### By month\n\n"); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	months := markdownTable(w, []string{"Month", "Amount"})
	for _, m := range s.Months() {
		months.Append([]string{m, conv.Format(s.ByMonth[m])})
	}

	months.Render()

	return nil
}

// WriteInsights writes one row per insight followed by the tips.
func WriteInsights(w io.Writer, r analytics.Report, conv currency.Converter) error {
	if _, err := io.WriteString(w, "## Savings opportunities\n\n"); err != nil {
		return fmt.Errorf("writing insights: %w", err)
	}

	if len(r.Insights) == 0 {
		_, err := io.WriteString(w, "No savings opportunities found.\n")
		return err
	}

	table := markdownTable(w, []string{"Category", "Monthly", "Suggested budget", "Potential savings", "Confidence"})
	for _, in := range r.Insights {
		table.Append([]string{
			in.Category,
			conv.FormatFloat(in.CurrentSpending),
			conv.FormatFloat(in.SuggestedBudget),
			conv.FormatFloat(in.PotentialSavings),
			fmt.Sprintf("%d%%", in.Confidence),
		})
	}

	table.Render()

	var b strings.Builder
	fmt.Fprintf(&b, "\nTotal potential savings: %s per month\n", conv.FormatFloat(r.TotalPotentialSavings))

	for _, in := range r.Insights {
		fmt.Fprintf(&b, "\n### %s\n\n", in.Category)

		for _, tip := range in.Tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing insights: %w", err)
	}

	return nil
}
