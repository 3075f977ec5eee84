package memory

import (
	"context"
	"slices"
	"sync"
)

type CategoryStore struct {
	mu      sync.RWMutex
	byOwner map[string][]string
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{byOwner: make(map[string][]string)}
}

func (s *CategoryStore) ListCategories(_ context.Context, owner string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.byOwner[owner]), nil
}

func (s *CategoryStore) CreateCategory(_ context.Context, owner, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.byOwner[owner], name) {
		s.byOwner[owner] = append(s.byOwner[owner], name)
	}

	return nil
}
