// Package assistant answers free-text questions about an owner's spending. A
// remote model is used when configured; otherwise, or when it fails, replies
// come from local keyword templates.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

const NoDataReply = "I don't see any expense data yet. Start tracking your expenses, and I'll provide personalized saving tips."

// Generator produces a free-text answer for prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Context is the spending data a reply may refer to.
type Context struct {
	Count       int
	Total       decimal.Decimal
	TopCategory string
	TopAmount   decimal.Decimal
	// Latest is the most recently created expense, if any.
	Latest *expense.Expense
	// HasLargeExpense is set when a single expense exceeds 30% of the total.
	HasLargeExpense bool
	Currency        currency.Converter
}

// NewContext builds a Context from expenses ordered newest first.
func NewContext(expenses []*expense.Expense, conv currency.Converter) Context {
	s := analytics.ComputeSummary(expenses)

	c := Context{
		Count:       len(expenses),
		Total:       s.Total,
		TopCategory: "unknown",
		Currency:    conv,
	}

	if name, amount, ok := s.TopCategory(); ok {
		c.TopCategory, c.TopAmount = name, amount
	}

	if len(expenses) > 0 {
		c.Latest = expenses[0]
	}

	threshold := s.Total.Mul(decimal.RequireFromString("0.3"))
	for _, e := range expenses {
		if e.Amount.GreaterThan(threshold) {
			c.HasLargeExpense = true
			break
		}
	}

	return c
}

type Service struct {
	gen Generator
}

// NewService accepts a nil Generator, in which case only templates are used.
func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

func (s *Service) Reply(ctx context.Context, c Context, query string) string {
	if s.gen != nil {
		answer, err := s.gen.Generate(ctx, prompt(c, query))
		if err == nil && strings.TrimSpace(answer) != "" {
			return answer
		}

		if err != nil {
			slog.Warn("assistant falling back to templates", "error", err)
		}
	}

	return Fallback(c, query)
}

func prompt(c Context, query string) string {
	return fmt.Sprintf(`You are a helpful financial assistant. The user has the following financial data:
- Number of expenses: %d
- Total spending: %s
- Top spending category: %s

The user's query is: %s

Give helpful, concise financial advice based on this information. If they're asking about saving money, budgeting, expense analysis, or financial planning, tailor your response to their specific situation using the data provided.`,
		c.Count, c.Currency.Format(c.Total), c.TopCategory, query)
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}

	return false
}

// Fallback answers from keyword templates.
func Fallback(c Context, query string) string {
	if c.Count == 0 {
		return NoDataReply
	}

	q := strings.ToLower(query)

	switch {
	case containsAny(q, "save money", "saving tips"):
		return fmt.Sprintf(`Based on your spending, here are some tips to save money:

1. Your highest expense category is %s (%s). Try to reduce spending in this area.
2. Set a budget for each category and stick to it.
3. Look for recurring subscriptions you might not need.
4. Consider meal planning to reduce food expenses.
5. Use cashback apps or credit cards with rewards for your regular purchases.`,
			c.TopCategory, c.Currency.Format(c.TopAmount))

	case containsAny(q, "analyze", "spending", "expenses"):
		recent := "You have just started tracking expenses."
		if c.Count > 3 && c.Latest != nil {
			recent = fmt.Sprintf("Your most recent expense was %q for %s.", c.Latest.Description, c.Currency.Format(c.Latest.Amount))
		}

		distribution := "Your expenses seem evenly distributed, which is good for budgeting!"
		if c.HasLargeExpense {
			distribution = "I notice some large one-time expenses. Consider spreading out big purchases when possible."
		}

		return fmt.Sprintf(`Here's a quick analysis of your expenses:

1. You've tracked %d expenses totaling %s.
2. Your biggest expense category is %s.
3. %s
4. %s`,
			c.Count, c.Currency.Format(c.Total), c.TopCategory, recent, distribution)

	case containsAny(q, "budget", "plan"):
		return fmt.Sprintf(`To create an effective budget plan:

1. Aim to save 20%% of your income.
2. Allocate 50%% for necessities (housing, food, utilities).
3. Use 30%% for discretionary spending.
4. Based on your current spending patterns, you might want to reduce your %s category expenses.
5. Set specific savings goals for motivation.`, c.TopCategory)
	}

	return `I'm here to help with your finances! You can ask me to:
- Analyze your expenses
- Provide saving tips
- Help with budget planning
- Identify areas to cut costs`
}
