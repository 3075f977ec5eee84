package store_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/internal/database"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/expense/store"
)

var columns = []string{"id", "owner", "amount", "category", "date", "description", "created_at", "updated_at"}

func newMock(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return store.New(db, database.Postgres), mock
}

func TestStore_GetExpense(t *testing.T) {
	s, mock := newMock(t)
	id := uuid.New()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner = $1 AND id = $2")).
		WithArgs("alice", id.String()).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "alice", "45.99", "Food & Dining", "2024-02-28", "Lunch", created, nil))

	e, err := s.GetExpense(context.Background(), "alice", id)
	require.NoError(t, err)

	assert.Equal(t, id, e.ID)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("45.99")))
	assert.Equal(t, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), e.Date)
	assert.Equal(t, created, e.CreatedAt)
	assert.Nil(t, e.UpdatedAt)
}

func TestStore_GetExpense_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("SELECT").WillReturnError(sql.ErrNoRows)

	_, err := s.GetExpense(context.Background(), "alice", uuid.New())
	assert.ErrorIs(t, err, expense.ErrNotFound)
}

func TestStore_ListExpenses_Filters(t *testing.T) {
	s, mock := newMock(t)
	category := "Shopping"
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`AND category = $2 AND LOWER(description) LIKE $3 ESCAPE '\' AND date >= $4 ORDER BY created_at DESC`,
	)).
		WithArgs("alice", "Shopping", `%50\%\_off%`, "2024-01-01").
		WillReturnRows(sqlmock.NewRows(columns))

	es, err := s.ListExpenses(context.Background(), "alice", expense.ListFilter{
		Category:  &category,
		Search:    "50%_OFF",
		StartDate: &start,
	})
	require.NoError(t, err)
	assert.NotNil(t, es)
	assert.Empty(t, es)
}

func TestStore_UpdateExpense_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("UPDATE expenses").WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateExpense(context.Background(), &expense.Expense{
		ID:     uuid.New(),
		Owner:  "alice",
		Amount: decimal.NewFromInt(1),
		Date:   time.Now(),
	})
	assert.ErrorIs(t, err, expense.ErrNotFound)
}

func TestStore_DeleteExpense(t *testing.T) {
	s, mock := newMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM expenses WHERE owner = $1 AND id = $2")).
		WithArgs("alice", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.DeleteExpense(context.Background(), "alice", id))
}

func TestStore_CreateExpenses_RollsBackOnError(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO expenses")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	btx, err := s.BeginBatch(context.Background())
	require.NoError(t, err)

	es := []*expense.Expense{
		{ID: uuid.New(), Owner: "alice", Amount: decimal.NewFromInt(1), Date: time.Now()},
		{ID: uuid.New(), Owner: "alice", Amount: decimal.NewFromInt(2), Date: time.Now()},
	}

	err = btx.CreateExpenses(context.Background(), es)
	require.ErrorContains(t, err, "constraint")
	require.NoError(t, btx.Rollback())
}

func TestStore_SQLiteRoundTrip(t *testing.T) {
	path := t.TempDir() + "/expenses.db"
	require.NoError(t, database.Migrate(database.DriverSQLite, path))

	db, err := database.Open(database.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := store.New(db, database.SQLite)
	svc := expense.NewService(s)
	ctx := context.Background()

	first, err := svc.Create(ctx, expense.CreateParams{
		Owner:       "alice",
		Amount:      decimal.RequireFromString("12.50"),
		Category:    "Entertainment",
		Date:        time.Date(2023, 6, 17, 0, 0, 0, 0, time.UTC),
		Description: "Movie tickets",
	})
	require.NoError(t, err)

	_, err = svc.CreateBatch(ctx, []expense.CreateParams{
		{Owner: "alice", Amount: decimal.NewFromInt(30), Category: "Shopping", Date: time.Now(), Description: "Books"},
		{Owner: "bob", Amount: decimal.NewFromInt(5), Category: "Other", Date: time.Now(), Description: "Gum"},
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, "alice", expense.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Books", list[0].Description, "newest first")

	got, err := svc.Get(ctx, "alice", first.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(first.Amount))
	assert.Equal(t, first.Date, got.Date)

	_, err = svc.Get(ctx, "bob", first.ID)
	assert.ErrorIs(t, err, expense.ErrNotFound)

	updated, err := svc.Update(ctx, "alice", first.ID, expense.CreateParams{
		Amount:      decimal.NewFromInt(15),
		Category:    "Entertainment",
		Date:        first.Date,
		Description: "Movie tickets and popcorn",
	})
	require.NoError(t, err)

	got, err = svc.Get(ctx, "alice", first.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Description, got.Description)
	require.NotNil(t, got.UpdatedAt)

	search, err := svc.List(ctx, "alice", expense.ListFilter{Search: "POPCORN"})
	require.NoError(t, err)
	require.Len(t, search, 1)

	require.NoError(t, svc.Delete(ctx, "alice", first.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "alice", first.ID), expense.ErrNotFound)
}
