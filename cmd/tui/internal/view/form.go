package view

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

// expenseFields backs the add and edit forms. Amount is entered in the
// display currency.
type expenseFields struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

func newFields(conv currency.Converter, e *expense.Expense) *expenseFields {
	if e == nil {
		return &expenseFields{Date: FormatDate(time.Now())}
	}

	return &expenseFields{
		Description: e.Description,
		Amount:      conv.ToDisplay(e.Amount).StringFixed(2),
		Category:    e.Category,
		Date:        FormatDate(e.Date),
	}
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}

	if !d.IsPositive() {
		return errors.New("amount must be greater than zero")
	}

	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func (f *expenseFields) params(owner string, conv currency.Converter) (expense.CreateParams, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil {
		return expense.CreateParams{}, fmt.Errorf("invalid amount: %w", err)
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(f.Date))
	if err != nil {
		return expense.CreateParams{}, fmt.Errorf("invalid date: %w", err)
	}

	return expense.CreateParams{
		Owner:       owner,
		Amount:      conv.FromDisplay(amount),
		Category:    f.Category,
		Date:        date,
		Description: f.Description,
	}, nil
}

// newExpenseForm lists categories in the select, keeping the current one when
// it is no longer in the set.
func newExpenseForm(f *expenseFields, categories []string, displayCode string) *huh.Form {
	options := slices.Clone(categories)
	if f.Category != "" && !slices.Contains(options, f.Category) {
		options = append(options, f.Category)
	}

	if f.Category == "" && len(options) > 0 {
		f.Category = options[0]
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&f.Description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Amount (%s)", displayCode)).
				Value(&f.Amount).
				Validate(validateAmount),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(huh.NewOptions(options...)...).
				Value(&f.Category),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(validateDate),
		),
	).WithWidth(45).WithShowHelp(false)
}
