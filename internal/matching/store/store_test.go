package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/internal/database"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/matching"
	"github.com/MrJamesThe3rd/spendlens/internal/matching/store"
)

func TestStore_ListRules(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner = $1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"pattern", "category", "created_at"}).
			AddRow("netflix", "Entertainment", at))

	rules, err := store.New(db, database.Postgres).ListRules(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []matching.Rule{{Pattern: "netflix", Category: "Entertainment", CreatedAt: at}}, rules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveRule_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO category_rules")).
		WithArgs("alice", "netflix", "Entertainment", sqlmock.AnyArg()).
		WillReturnError(errors.New("boom"))

	err = store.New(db, database.Postgres).SaveRule(context.Background(), "alice", matching.Rule{
		Pattern:  "netflix",
		Category: "Entertainment",
	})
	assert.EqualError(t, err, "saving rule: boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SQLiteWithService(t *testing.T) {
	path := t.TempDir() + "/rules.db"
	require.NoError(t, database.Migrate(database.DriverSQLite, path))

	db, err := database.Open(database.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := matching.NewService(store.New(db, database.SQLite))
	ctx := context.Background()

	_, err = svc.Learn(ctx, "alice", "coffee", "Food & Dining")
	require.NoError(t, err)

	// Relearning a pattern replaces its category.
	_, err = svc.Learn(ctx, "alice", "coffee", "Coffee")
	require.NoError(t, err)

	rules, err := svc.Rules(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Coffee", rules[0].Category)

	got, err := svc.Suggest(ctx, "alice", "Blue Bottle COFFEE")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", got)

	got, err = svc.Suggest(ctx, "bob", "Blue Bottle COFFEE")
	require.NoError(t, err)
	assert.Empty(t, got)

	entries := []expense.CreateParams{{Description: "coffee beans", Category: "Other"}}
	n, err := svc.Categorize(ctx, "alice", entries, []int{0})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Coffee", entries[0].Category)
}
