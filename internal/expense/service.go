package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, owner string, id uuid.UUID) (*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, owner string, id uuid.UUID) error

	// ListExpenses returns the owner's expenses, most recently created first.
	ListExpenses(ctx context.Context, owner string, filter ListFilter) ([]*Expense, error)

	BeginBatch(ctx context.Context) (BatchTx, error)
}

type BatchTx interface {
	CreateExpenses(ctx context.Context, es []*Expense) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	e := s.newExpense(params)
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, owner string, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, owner, id)
}

func (s *Service) List(ctx context.Context, owner string, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, owner, filter)
}

// Update replaces every editable field of the expense with params. The category
// is kept verbatim even when it is no longer part of the active set.
func (s *Service) Update(ctx context.Context, owner string, id uuid.UUID, params CreateParams) (*Expense, error) {
	params.Owner = owner
	if err := params.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetExpense(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now().UTC()
	replacement := &Expense{
		ID:          existing.ID,
		Owner:       existing.Owner,
		Amount:      params.Amount,
		Category:    strings.TrimSpace(params.Category),
		Date:        DateOnly(params.Date),
		Description: strings.TrimSpace(params.Description),
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   &updatedAt,
	}

	if err := s.repo.UpdateExpense(ctx, replacement); err != nil {
		return nil, err
	}

	return replacement, nil
}

func (s *Service) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	return s.repo.DeleteExpense(ctx, owner, id)
}

// CreateBatch validates every entry up front and inserts them atomically.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i, p := range params {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	btx, err := s.repo.BeginBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer btx.Rollback()

	es := make([]*Expense, len(params))
	for i, p := range params {
		es[i] = s.newExpense(p)
	}

	if err := btx.CreateExpenses(ctx, es); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return es, nil
}

func (s *Service) newExpense(p CreateParams) *Expense {
	return &Expense{
		ID:          uuid.New(),
		Owner:       p.Owner,
		Amount:      p.Amount,
		Category:    strings.TrimSpace(p.Category),
		Date:        DateOnly(p.Date),
		Description: strings.TrimSpace(p.Description),
		CreatedAt:   s.now().UTC(),
	}
}
