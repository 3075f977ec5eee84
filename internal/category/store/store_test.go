package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/internal/category"
	"github.com/MrJamesThe3rd/spendlens/internal/category/store"
	"github.com/MrJamesThe3rd/spendlens/internal/database"
)

func TestStore_ListCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner = $1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Pets").AddRow("Gifts"))

	names, err := store.New(db, database.Postgres).ListCategories(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pets", "Gifts"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateCategory_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("alice", "Pets", sqlmock.AnyArg()).
		WillReturnError(errors.New("boom"))

	err = store.New(db, database.Postgres).CreateCategory(context.Background(), "alice", "Pets")
	assert.EqualError(t, err, "creating category: boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SQLiteWithService(t *testing.T) {
	path := t.TempDir() + "/categories.db"
	require.NoError(t, database.Migrate(database.DriverSQLite, path))

	db, err := database.Open(database.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := category.NewService(store.New(db, database.SQLite))
	ctx := context.Background()

	name, err := svc.Add(ctx, "alice", "Pets")
	require.NoError(t, err)
	assert.Equal(t, "Pets", name)

	name, err = svc.Add(ctx, "alice", "PETS")
	require.NoError(t, err)
	assert.Equal(t, "Pets", name)

	alice, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, alice, "Pets")

	bob, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, category.DefaultCategories, bob)
}
