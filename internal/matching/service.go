package matching

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	ListRules(ctx context.Context, owner string) ([]Rule, error)
	// SaveRule inserts the rule or replaces the one with the same pattern.
	SaveRule(ctx context.Context, owner string, r Rule) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Rules returns owner's rules in match order: longest pattern first, the
// newest winning ties.
func (s *Service) Rules(ctx context.Context, owner string) ([]Rule, error) {
	rules, err := s.repo.ListRules(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}

	return sortRules(rules), nil
}

// Learn remembers that descriptions containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, owner, pattern, category string) (Rule, error) {
	r := Rule{
		Pattern:   strings.TrimSpace(pattern),
		Category:  strings.TrimSpace(category),
		CreatedAt: s.now().UTC(),
	}

	if r.Pattern == "" {
		return Rule{}, ErrEmptyPattern
	}

	if r.Category == "" {
		return Rule{}, ErrEmptyCategory
	}

	if err := s.repo.SaveRule(ctx, owner, r); err != nil {
		return Rule{}, fmt.Errorf("saving rule: %w", err)
	}

	return r, nil
}

// Suggest returns the category of the first matching rule in match order, or
// "" when nothing matches.
func (s *Service) Suggest(ctx context.Context, owner, description string) (string, error) {
	rules, err := s.Rules(ctx, owner)
	if err != nil {
		return "", err
	}

	return match(rules, description), nil
}

// Categorize applies the owner's rules to the entries at the given indices and
// reports how many were changed. Entries without a match are left untouched.
func (s *Service) Categorize(ctx context.Context, owner string, entries []expense.CreateParams, indices []int) (int, error) {
	if len(indices) == 0 {
		return 0, nil
	}

	rules, err := s.Rules(ctx, owner)
	if err != nil {
		return 0, err
	}

	changed := 0

	for _, i := range indices {
		if c := match(rules, entries[i].Description); c != "" {
			entries[i].Category = c
			changed++
		}
	}

	return changed, nil
}

// match returns the category of the first rule whose pattern occurs in
// description. Casers are stateful, so each call gets its own.
func match(sorted []Rule, description string) string {
	fold := cases.Fold()
	desc := fold.String(description)

	for _, r := range sorted {
		if strings.Contains(desc, fold.String(r.Pattern)) {
			return r.Category
		}
	}

	return ""
}

func sortRules(rules []Rule) []Rule {
	return slices.SortedStableFunc(slices.Values(rules), func(a, b Rule) int {
		if c := cmp.Compare(len(b.Pattern), len(a.Pattern)); c != 0 {
			return c
		}

		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
