package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/spendlens/internal/database"
	"github.com/MrJamesThe3rd/spendlens/internal/matching"
)

type Store struct {
	db      *sql.DB
	dialect database.Dialect
}

func New(db *sql.DB, dialect database.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) ListRules(ctx context.Context, owner string) ([]matching.Rule, error) {
	query := s.dialect.Rebind(`
		SELECT pattern, category, created_at
		FROM category_rules
		WHERE owner = ?
		ORDER BY created_at DESC
	`)

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []matching.Rule

	for rows.Next() {
		var (
			r         matching.Rule
			createdAt database.Time
		)

		if err := rows.Scan(&r.Pattern, &r.Category, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		r.CreatedAt = createdAt.Time
		rules = append(rules, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rule rows: %w", err)
	}

	return rules, nil
}

func (s *Store) SaveRule(ctx context.Context, owner string, r matching.Rule) error {
	query := s.dialect.Rebind(`
		INSERT INTO category_rules (owner, pattern, category, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner, pattern)
		DO UPDATE SET category = excluded.category, created_at = excluded.created_at
	`)

	if _, err := s.db.ExecContext(ctx, query, owner, r.Pattern, r.Category, database.Timestamp(r.CreatedAt)); err != nil {
		return fmt.Errorf("saving rule: %w", err)
	}

	return nil
}
