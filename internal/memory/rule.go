package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/MrJamesThe3rd/spendlens/internal/matching"
)

type RuleStore struct {
	mu      sync.RWMutex
	byOwner map[string][]matching.Rule
}

func NewRuleStore() *RuleStore {
	return &RuleStore{byOwner: make(map[string][]matching.Rule)}
}

func (s *RuleStore) ListRules(_ context.Context, owner string) ([]matching.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.byOwner[owner]), nil
}

func (s *RuleStore) SaveRule(_ context.Context, owner string, r matching.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules := slices.DeleteFunc(s.byOwner[owner], func(existing matching.Rule) bool {
		return existing.Pattern == r.Pattern
	})
	s.byOwner[owner] = append(rules, r)

	return nil
}
