package analytics

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// DefaultThreshold is the materiality threshold: categories averaging this
	// much or less per month are never surfaced.
	DefaultThreshold = 20.0
	// DefaultLimit caps the number of insights returned.
	DefaultLimit = 5

	baseConfidence = 60
	maxConfidence  = 95

	trendFraction      = 0.15
	trendConfidence    = 20
	varianceRatio      = 0.5
	varianceFraction   = 0.1
	varianceConfidence = 15
)

// categoryPlaceholder is replaced with the category name in rule tips.
const categoryPlaceholder = "{category}"

// SavingsInsight is a per-category recommendation produced by one analysis run.
type SavingsInsight struct {
	Category         string
	CurrentSpending  float64
	SuggestedBudget  float64
	PotentialSavings float64
	Confidence       int
	Tips             []string
}

// Rule is the category-specific contribution to an insight: an extra fraction
// of monthly spend considered reducible and the tips that go with it.
type Rule struct {
	Fraction float64
	Tips     []string
}

// RuleTable maps category names, matched case-insensitively, to rules. Exactly
// one rule applies per category; unknown categories get the fallback.
type RuleTable struct {
	rules    map[string]Rule
	fallback Rule
}

func NewRuleTable(fallback Rule, rules map[string]Rule) RuleTable {
	t := RuleTable{
		rules:    make(map[string]Rule, len(rules)),
		fallback: fallback,
	}

	for name, r := range rules {
		t.rules[strings.ToLower(name)] = r
	}

	return t
}

func DefaultRuleTable() RuleTable {
	return NewRuleTable(
		Rule{
			Fraction: 0.1,
			Tips:     []string{"Review your " + categoryPlaceholder + " expenses for potential optimizations."},
		},
		map[string]Rule{
			"food & dining": {
				Fraction: 0.2,
				Tips: []string{
					"Try meal planning and cooking at home more often.",
					"Look for restaurant deals and happy hour specials.",
				},
			},
			"entertainment": {
				Fraction: 0.25,
				Tips: []string{
					"Consider free or low-cost entertainment alternatives.",
					"Look for subscription services you might not be using.",
				},
			},
			"shopping": {
				Fraction: 0.3,
				Tips: []string{
					"Implement a 24-hour wait rule before non-essential purchases.",
					"Compare prices across different retailers.",
				},
			},
			"transportation": {
				Fraction: 0.15,
				Tips: []string{
					"Consider carpooling or public transportation options.",
					"Plan trips to reduce unnecessary fuel consumption.",
				},
			},
		},
	)
}

// Lookup returns the rule for category with tips already rendered.
func (t RuleTable) Lookup(category string) Rule {
	r, ok := t.rules[strings.ToLower(category)]
	if !ok {
		r = t.fallback
	}

	tips := make([]string, len(r.Tips))
	for i, tip := range r.Tips {
		tips[i] = strings.ReplaceAll(tip, categoryPlaceholder, category)
	}

	return Rule{Fraction: r.Fraction, Tips: tips}
}

// Generator scores spending patterns into savings insights.
type Generator struct {
	Threshold float64
	Limit     int
	Rules     RuleTable
}

func DefaultGenerator() Generator {
	return Generator{
		Threshold: DefaultThreshold,
		Limit:     DefaultLimit,
		Rules:     DefaultRuleTable(),
	}
}

// GenerateInsights applies the default generator.
func GenerateInsights(patterns []SpendingPattern) []SavingsInsight {
	return DefaultGenerator().Generate(patterns)
}

// Generate returns at most g.Limit insights, ordered by descending monthly
// spend. Ties are ordered by category name so results are deterministic.
//
// SuggestedBudget is not clamped at zero. With the default table reductions top
// out at 55% of spend, but a custom table can push it negative.
func (g Generator) Generate(patterns []SpendingPattern) []SavingsInsight {
	material := make([]SpendingPattern, 0, len(patterns))

	for _, p := range patterns {
		if p.AvgMonthly > g.Threshold {
			material = append(material, p)
		}
	}

	slices.SortStableFunc(material, func(a, b SpendingPattern) int {
		if c := cmp.Compare(b.AvgMonthly, a.AvgMonthly); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	if g.Limit >= 0 && len(material) > g.Limit {
		material = material[:g.Limit]
	}

	insights := make([]SavingsInsight, 0, len(material))
	for _, p := range material {
		insights = append(insights, g.score(p))
	}

	return insights
}

func (g Generator) score(p SpendingPattern) SavingsInsight {
	avg := p.AvgMonthly
	reduction := 0.0
	confidence := baseConfidence

	var tips []string

	if p.Trend == TrendIncreasing {
		reduction += avg * trendFraction
		confidence += trendConfidence
		tips = append(tips, "Your "+p.Category+" spending is trending upward. Consider setting a monthly limit.")
	}

	if p.Variance > avg*varianceRatio {
		reduction += avg * varianceFraction
		confidence += varianceConfidence
		tips = append(tips, "High variance in "+p.Category+" spending suggests opportunities for better budgeting.")
	}

	rule := g.Rules.Lookup(p.Category)
	reduction += avg * rule.Fraction
	tips = append(tips, rule.Tips...)

	return SavingsInsight{
		Category:         p.Category,
		CurrentSpending:  avg,
		SuggestedBudget:  avg - reduction,
		PotentialSavings: reduction,
		Confidence:       min(confidence, maxConfidence),
		Tips:             tips,
	}
}
