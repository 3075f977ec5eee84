package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/spendlens/internal/database"
)

type Store struct {
	db      *sql.DB
	dialect database.Dialect
	now     func() time.Time
}

func New(db *sql.DB, dialect database.Dialect) *Store {
	return &Store{db: db, dialect: dialect, now: time.Now}
}

func (s *Store) ListCategories(ctx context.Context, owner string) ([]string, error) {
	query := s.dialect.Rebind(`
		SELECT name
		FROM categories
		WHERE owner = ?
		ORDER BY created_at ASC, name ASC
	`)

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return names, nil
}

func (s *Store) CreateCategory(ctx context.Context, owner, name string) error {
	query := s.dialect.Rebind(`
		INSERT INTO categories (owner, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (owner, name) DO NOTHING
	`)

	if _, err := s.db.ExecContext(ctx, query, owner, name, database.Timestamp(s.now())); err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}
