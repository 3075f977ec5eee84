package category

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	// ListCategories returns the owner's custom categories in creation order.
	ListCategories(ctx context.Context, owner string) ([]string, error)
	CreateCategory(ctx context.Context, owner, name string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) set(ctx context.Context, owner string) (*Set, error) {
	custom, err := s.repo.ListCategories(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	set := NewSet(DefaultCategories...)
	for _, c := range custom {
		set.Add(c)
	}

	return set, nil
}

// List returns the defaults followed by the owner's custom categories.
func (s *Service) List(ctx context.Context, owner string) ([]string, error) {
	set, err := s.set(ctx, owner)
	if err != nil {
		return nil, err
	}

	return set.Names(), nil
}

// Add registers a custom category. Adding a name that already exists under
// case folding is not an error; the existing spelling is returned.
func (s *Service) Add(ctx context.Context, owner, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	set, err := s.set(ctx, owner)
	if err != nil {
		return "", err
	}

	if existing, ok := set.Lookup(name); ok {
		return existing, nil
	}

	if err := s.repo.CreateCategory(ctx, owner, name); err != nil {
		return "", fmt.Errorf("creating category: %w", err)
	}

	return name, nil
}
