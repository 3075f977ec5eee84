package analytics

import (
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

// Report is the result of one analysis run.
type Report struct {
	Insights              []SavingsInsight
	TotalPotentialSavings float64
}

// Analyze runs the default generator over expenses.
func Analyze(expenses []*expense.Expense) Report {
	return DefaultGenerator().Analyze(expenses)
}

// Analyze derives patterns for every category observed in expenses and scores
// them. No expenses, or no material category, is a normal empty report.
func (g Generator) Analyze(expenses []*expense.Expense) Report {
	report := Report{Insights: []SavingsInsight{}}
	if len(expenses) == 0 {
		return report
	}

	categories := ComputeSummary(expenses).Categories()
	report.Insights = g.Generate(AnalyzePatterns(expenses, categories))

	for _, in := range report.Insights {
		report.TotalPotentialSavings += in.PotentialSavings
	}

	return report
}
