package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendlens/internal/database"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

type Store struct {
	db      *sql.DB
	dialect database.Dialect
}

func New(db *sql.DB, dialect database.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanExpense reads an expense row.
// Expected column order: id, owner, amount, category, date, description, created_at, updated_at
func scanExpense(s scanner) (*expense.Expense, error) {
	var (
		e                          expense.Expense
		date, createdAt, updatedAt database.Time
	)

	if err := s.Scan(
		&e.ID, &e.Owner, &e.Amount, &e.Category, &date, &e.Description, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	e.Date = expense.DateOnly(date.Time)
	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Ptr()

	return &e, nil
}

const selectExpenseColumns = `id, owner, amount, category, date, description, created_at, updated_at`

const insertExpense = `
	INSERT INTO expenses (id, owner, amount, category, date, description, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func insertArgs(e *expense.Expense) []any {
	var updatedAt any
	if e.UpdatedAt != nil {
		updatedAt = database.Timestamp(*e.UpdatedAt)
	}

	return []any{
		e.ID.String(),
		e.Owner,
		e.Amount.String(),
		e.Category,
		e.Date.Format(time.DateOnly),
		e.Description,
		database.Timestamp(e.CreatedAt),
		updatedAt,
	}
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(insertExpense), insertArgs(e)...); err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, owner string, id uuid.UUID) (*expense.Expense, error) {
	query := s.dialect.Rebind(`SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE owner = ? AND id = ?`)

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, owner, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, owner string, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE owner = ?`

	args := []any{owner}

	if filter.Category != nil {
		query += " AND category = ?"

		args = append(args, *filter.Category)
	}

	if filter.Search != "" {
		query += ` AND LOWER(description) LIKE ? ESCAPE '\'`

		args = append(args, "%"+escapeLike(strings.ToLower(filter.Search))+"%")
	}

	if filter.StartDate != nil {
		query += " AND date >= ?"

		args = append(args, filter.StartDate.Format(time.DateOnly))
	}

	if filter.EndDate != nil {
		query += " AND date <= ?"

		args = append(args, filter.EndDate.Format(time.DateOnly))
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	es := []*expense.Expense{}

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		es = append(es, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return es, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	query := s.dialect.Rebind(`
		UPDATE expenses
		SET amount = ?, category = ?, date = ?, description = ?, updated_at = ?
		WHERE owner = ? AND id = ?
	`)

	var updatedAt any
	if e.UpdatedAt != nil {
		updatedAt = database.Timestamp(*e.UpdatedAt)
	}

	res, err := s.db.ExecContext(ctx, query,
		e.Amount.String(),
		e.Category,
		e.Date.Format(time.DateOnly),
		e.Description,
		updatedAt,
		e.Owner,
		e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	return requireRow(res)
}

func (s *Store) DeleteExpense(ctx context.Context, owner string, id uuid.UUID) error {
	query := s.dialect.Rebind(`DELETE FROM expenses WHERE owner = ? AND id = ?`)

	res, err := s.db.ExecContext(ctx, query, owner, id.String())
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type batchTx struct {
	tx      *sql.Tx
	dialect database.Dialect
}

func (s *Store) BeginBatch(ctx context.Context) (expense.BatchTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch tx: %w", err)
	}

	return &batchTx{tx: tx, dialect: s.dialect}, nil
}

func (b *batchTx) Commit() error   { return b.tx.Commit() }
func (b *batchTx) Rollback() error { return b.tx.Rollback() }

func (b *batchTx) CreateExpenses(ctx context.Context, es []*expense.Expense) error {
	stmt, err := b.tx.PrepareContext(ctx, b.dialect.Rebind(insertExpense))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range es {
		if _, err := stmt.ExecContext(ctx, insertArgs(e)...); err != nil {
			return fmt.Errorf("creating expense %s: %w", e.ID, err)
		}
	}

	return nil
}
