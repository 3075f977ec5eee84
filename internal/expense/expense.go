package expense

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthLayout is the year-month prefix used to bucket expenses by month.
const MonthLayout = "2006-01"

const maxDescriptionLen = 200

var (
	ErrNotFound           = errors.New("expense not found")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrEmptyCategory      = errors.New("empty category")
	ErrMissingDate        = errors.New("missing date")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyOwner         = errors.New("empty owner")
)

// Expense is a single spend in the base currency. It is never mutated in place;
// edits replace every field except ID, Owner and CreatedAt.
type Expense struct {
	ID          uuid.UUID
	Owner       string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Month returns the YYYY-MM bucket of the expense date.
func (e *Expense) Month() string {
	return e.Date.Format(MonthLayout)
}

type CreateParams struct {
	Owner       string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description string
}

// Validate rejects malformed expenses before they reach the store.
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Owner) == "" {
		return ErrEmptyOwner
	}

	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}

	if p.Date.IsZero() {
		return ErrMissingDate
	}

	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return ErrEmptyDescription
	}

	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}

	return nil
}

// IsValidationError reports whether err came from CreateParams.Validate.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount, ErrEmptyCategory, ErrMissingDate,
		ErrEmptyDescription, ErrDescriptionTooLong, ErrEmptyOwner,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// ListFilter narrows a listing. The zero value matches everything.
type ListFilter struct {
	Category  *string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// Matches applies the filter in memory. Stores that cannot express the search
// natively use it as a post-filter.
func (f ListFilter) Matches(e *Expense) bool {
	if f.Category != nil && e.Category != *f.Category {
		return false
	}

	if f.Search != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Search)) {
		return false
	}

	if f.StartDate != nil && e.Date.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && e.Date.After(*f.EndDate) {
		return false
	}

	return true
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
