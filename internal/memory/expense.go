// Package memory holds owner-keyed in-memory repositories. Nothing survives a
// restart; concurrent writers get last-write-wins semantics.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

type ExpenseStore struct {
	mu sync.RWMutex
	// byOwner keeps each owner's expenses newest first.
	byOwner map[string][]*expense.Expense
}

func NewExpenseStore() *ExpenseStore {
	return &ExpenseStore{byOwner: make(map[string][]*expense.Expense)}
}

func clone(e *expense.Expense) *expense.Expense {
	cp := *e
	if e.UpdatedAt != nil {
		u := *e.UpdatedAt
		cp.UpdatedAt = &u
	}

	return &cp
}

func (s *ExpenseStore) CreateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prepend(e.Owner, clone(e))

	return nil
}

func (s *ExpenseStore) prepend(owner string, es ...*expense.Expense) {
	cur := s.byOwner[owner]
	next := make([]*expense.Expense, 0, len(cur)+len(es))

	for i := len(es) - 1; i >= 0; i-- {
		next = append(next, es[i])
	}

	s.byOwner[owner] = append(next, cur...)
}

func (s *ExpenseStore) find(owner string, id uuid.UUID) int {
	for i, e := range s.byOwner[owner] {
		if e.ID == id {
			return i
		}
	}

	return -1
}

func (s *ExpenseStore) GetExpense(_ context.Context, owner string, id uuid.UUID) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.find(owner, id)
	if i < 0 {
		return nil, expense.ErrNotFound
	}

	return clone(s.byOwner[owner][i]), nil
}

func (s *ExpenseStore) ListExpenses(_ context.Context, owner string, filter expense.ListFilter) ([]*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*expense.Expense{}

	for _, e := range s.byOwner[owner] {
		if filter.Matches(e) {
			out = append(out, clone(e))
		}
	}

	return out, nil
}

func (s *ExpenseStore) UpdateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(e.Owner, e.ID)
	if i < 0 {
		return expense.ErrNotFound
	}

	s.byOwner[e.Owner][i] = clone(e)

	return nil
}

func (s *ExpenseStore) DeleteExpense(_ context.Context, owner string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(owner, id)
	if i < 0 {
		return expense.ErrNotFound
	}

	cur := s.byOwner[owner]
	s.byOwner[owner] = append(cur[:i:i], cur[i+1:]...)

	return nil
}

// BeginBatch buffers inserts until Commit. Rollback after Commit is a no-op.
func (s *ExpenseStore) BeginBatch(_ context.Context) (expense.BatchTx, error) {
	return &batch{store: s}, nil
}

type batch struct {
	store   *ExpenseStore
	pending []*expense.Expense
	done    bool
}

func (b *batch) CreateExpenses(_ context.Context, es []*expense.Expense) error {
	for _, e := range es {
		b.pending = append(b.pending, clone(e))
	}

	return nil
}

func (b *batch) Commit() error {
	if b.done {
		return nil
	}

	b.done = true

	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	byOwner := make(map[string][]*expense.Expense)
	var order []string

	for _, e := range b.pending {
		if _, ok := byOwner[e.Owner]; !ok {
			order = append(order, e.Owner)
		}

		byOwner[e.Owner] = append(byOwner[e.Owner], e)
	}

	for _, owner := range order {
		b.store.prepend(owner, byOwner[owner]...)
	}

	return nil
}

func (b *batch) Rollback() error {
	b.done = true
	b.pending = nil

	return nil
}
