package ledger_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/category"
	categoryStore "github.com/MrJamesThe3rd/spendlens/internal/category/store"
	"github.com/MrJamesThe3rd/spendlens/internal/database"
	"github.com/MrJamesThe3rd/spendlens/internal/events"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/spendlens/internal/expense/store"
	"github.com/MrJamesThe3rd/spendlens/internal/ledger"
	"github.com/MrJamesThe3rd/spendlens/internal/memory"
)

type recorder struct {
	mu   sync.Mutex
	msgs []events.ExpensesChanged
	err  error
}

func (r *recorder) Publish(_ context.Context, msg events.ExpensesChanged) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = append(r.msgs, msg)

	return r.err
}

func newLedger(opts ...ledger.Option) *ledger.Ledger {
	return ledger.New(
		expense.NewService(memory.NewExpenseStore()),
		category.NewService(memory.NewCategoryStore()),
		opts...,
	)
}

func params(amount, cat, date string) expense.CreateParams {
	d, _ := time.Parse(time.DateOnly, date)

	return expense.CreateParams{
		Owner:       "alice",
		Amount:      decimal.RequireFromString(amount),
		Category:    cat,
		Date:        d,
		Description: cat + " " + date,
	}
}

func TestLedger_SummaryTracksMutations(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	l := newLedger(ledger.WithNotifier(rec))

	s, err := l.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())

	food, err := l.Add(ctx, params("100", "Food & Dining", "2024-01-15"))
	require.NoError(t, err)

	_, err = l.Add(ctx, params("40", "Shopping", "2024-02-10"))
	require.NoError(t, err)

	s, err = l.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "140", s.Total.String())

	_, err = l.Edit(ctx, "alice", food.ID, params("60", "Travel", "2024-01-15"))
	require.NoError(t, err)

	s, err = l.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "100", s.Total.String())
	assert.NotContains(t, s.ByCategory, "Food & Dining")
	assert.Equal(t, "60", s.ByCategory["Travel"].String())

	require.NoError(t, l.Remove(ctx, "alice", food.ID))

	s, err = l.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "40", s.Total.String())

	require.Len(t, rec.msgs, 4)
	assert.Equal(t, events.ActionAdded, rec.msgs[0].Action)
	assert.Equal(t, events.ActionEdited, rec.msgs[2].Action)
	assert.Equal(t, events.ActionRemoved, rec.msgs[3].Action)
	assert.Equal(t, 1, rec.msgs[3].Count)
	assert.Equal(t, "40", rec.msgs[3].Total.String())
}

func TestLedger_FailedMutationLeavesSummary(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	_, err := l.Add(ctx, params("10", "Other", "2024-01-01"))
	require.NoError(t, err)

	_, err = l.Add(ctx, params("0", "Other", "2024-01-01"))
	assert.ErrorIs(t, err, expense.ErrInvalidAmount)

	s, err := l.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "10", s.Total.String())
}

func TestLedger_PublishFailureIsNotReturned(t *testing.T) {
	l := newLedger(ledger.WithNotifier(&recorder{err: errors.New("broker down")}))

	_, err := l.Add(context.Background(), params("10", "Other", "2024-01-01"))
	assert.NoError(t, err)
}

func TestLedger_ImportIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	_, err := l.Import(ctx, "bob", []expense.CreateParams{
		params("10", "Other", "2024-01-01"),
		params("-1", "Other", "2024-01-02"),
	})
	require.ErrorIs(t, err, expense.ErrInvalidAmount)

	es, err := l.Expenses(ctx, "bob", expense.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, es)

	imported, err := l.Import(ctx, "bob", []expense.CreateParams{
		params("10", "Other", "2024-01-01"),
		params("15", "Travel", "2024-01-02"),
	})
	require.NoError(t, err)
	assert.Len(t, imported, 2)

	s, err := l.Summary(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "25", s.Total.String())
}

func TestLedger_ImportLeavesParamsUntouched(t *testing.T) {
	entries := []expense.CreateParams{params("10", "Other", "2024-01-01")}
	entries[0].Owner = ""

	es, err := newLedger().Import(context.Background(), "bob", entries)
	require.NoError(t, err)
	require.Len(t, es, 1)

	assert.Equal(t, "bob", es[0].Owner)
	assert.Empty(t, entries[0].Owner)
}

// sqliteLedger opens a ledger over the SQLite file at path, as a separate
// process sharing the database would.
func sqliteLedger(t *testing.T, path string, opts ...ledger.Option) *ledger.Ledger {
	t.Helper()

	require.NoError(t, database.Migrate(database.DriverSQLite, path))

	db, err := database.Open(database.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return ledger.New(
		expense.NewService(expenseStore.New(db, database.SQLite)),
		category.NewService(categoryStore.New(db, database.SQLite)),
		opts...,
	)
}

func TestLedger_SharedStorageSummaryIsFresh(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	reader := sqliteLedger(t, path, ledger.WithoutSummaryCache())
	writer := sqliteLedger(t, path, ledger.WithoutSummaryCache())

	_, err := reader.Add(ctx, params("10", "Other", "2024-01-01"))
	require.NoError(t, err)

	s, err := reader.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "10", s.Total.String())

	_, err = writer.Add(ctx, params("90", "Travel", "2024-01-02"))
	require.NoError(t, err)

	es, err := reader.Expenses(ctx, "alice", expense.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, es, 2)

	s, err = reader.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "100", s.Total.String())
	assert.Equal(t, "90", s.ByCategory["Travel"].String())
}

func TestLedger_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			_, err := l.Add(ctx, params("2.5", "Other", "2024-03-01"))
			assert.NoError(t, err)
		})
	}

	wg.Wait()

	s, err := l.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "50", s.Total.String())
}

func TestLedger_Analysis(t *testing.T) {
	ctx := context.Background()
	l := newLedger(ledger.WithAnalysisDelay(0))

	_, err := l.Add(ctx, params("100", "Food & Dining", "2024-01-15"))
	require.NoError(t, err)
	_, err = l.Add(ctx, params("50", "Food & Dining", "2024-02-10"))
	require.NoError(t, err)

	assert.Equal(t, analytics.StateIdle, l.Analysis("alice").State)

	require.NoError(t, l.StartAnalysis(ctx, "alice"))
	l.Wait()

	st := l.Analysis("alice")
	require.Equal(t, analytics.StateReady, st.State)
	require.NotNil(t, st.Report)
	require.Len(t, st.Report.Insights, 1)
	assert.InDelta(t, 75.0, st.Report.Insights[0].CurrentSpending, 1e-9)
}

func TestLedger_AnalysisUsesSnapshot(t *testing.T) {
	ctx := context.Background()
	l := newLedger(ledger.WithAnalysisDelay(50 * time.Millisecond))

	_, err := l.Add(ctx, params("30", "Misc", "2024-01-15"))
	require.NoError(t, err)

	require.NoError(t, l.StartAnalysis(ctx, "alice"))
	assert.ErrorIs(t, l.StartAnalysis(ctx, "alice"), analytics.ErrAnalysisInProgress)

	_, err = l.Add(ctx, params("500", "Shopping", "2024-01-16"))
	require.NoError(t, err)

	l.Wait()

	st := l.Analysis("alice")
	require.NotNil(t, st.Report)
	require.Len(t, st.Report.Insights, 1)
	assert.Equal(t, "Misc", st.Report.Insights[0].Category)
}

func TestLedger_CancelAnalysis(t *testing.T) {
	ctx := context.Background()
	l := newLedger(ledger.WithAnalysisDelay(50 * time.Millisecond))

	require.NoError(t, l.StartAnalysis(ctx, "alice"))
	assert.True(t, l.CancelAnalysis("alice"))
	assert.Equal(t, analytics.StateIdle, l.Analysis("alice").State)

	l.Wait()

	st := l.Analysis("alice")
	assert.Equal(t, analytics.StateIdle, st.State)
	assert.Nil(t, st.Report)
}

func TestLedger_RunAnalysisEmpty(t *testing.T) {
	l := newLedger(ledger.WithAnalysisDelay(0))

	report, err := l.RunAnalysis(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, report.Insights)
	assert.Equal(t, analytics.StateReady, l.Analysis("nobody").State)
}

func TestLedger_Categories(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	name, err := l.AddCategory(ctx, "alice", "pets")
	require.NoError(t, err)
	assert.Equal(t, "pets", name)

	names, err := l.Categories(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, names, "pets")
}
