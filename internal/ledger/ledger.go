// Package ledger ties expense storage to derived analytics. Every mutation
// recomputes the owner's Summary before returning, so a Summary read after a
// mutation never reflects the state before it. When other processes write to
// the same storage the Summary cache must be disabled with
// WithoutSummaryCache, since their writes never reach this cache.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/cache"
	"github.com/MrJamesThe3rd/spendlens/internal/category"
	"github.com/MrJamesThe3rd/spendlens/internal/events"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

const (
	DefaultAnalysisDelay = 2 * time.Second
	defaultCacheSize     = 256
	defaultCacheTTL      = 10 * time.Minute
)

type Ledger struct {
	// mu serialises mutations with the summary recompute that follows them.
	mu sync.Mutex

	expenses   *expense.Service
	categories *category.Service
	summaries  *cache.LRU[analytics.Summary]
	cached     bool
	notifier   events.Notifier
	generator  analytics.Generator
	delay      time.Duration
	now        func() time.Time

	sessionsMu sync.Mutex
	sessions   map[string]*analytics.Session
	running    sync.WaitGroup
}

type Option func(*Ledger)

func WithNotifier(n events.Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

func WithSummaryCache(size int, ttl time.Duration) Option {
	return func(l *Ledger) {
		l.summaries = cache.NewLRU[analytics.Summary](size, ttl)
		l.cached = true
	}
}

// WithoutSummaryCache recomputes the Summary from storage on every read.
func WithoutSummaryCache() Option {
	return func(l *Ledger) { l.cached = false }
}

func WithAnalysisDelay(d time.Duration) Option {
	return func(l *Ledger) { l.delay = d }
}

func WithGenerator(g analytics.Generator) Option {
	return func(l *Ledger) { l.generator = g }
}

func New(expenses *expense.Service, categories *category.Service, opts ...Option) *Ledger {
	l := &Ledger{
		expenses:   expenses,
		categories: categories,
		summaries:  cache.NewLRU[analytics.Summary](defaultCacheSize, defaultCacheTTL),
		cached:     true,
		notifier:   events.Nop{},
		generator:  analytics.DefaultGenerator(),
		delay:      DefaultAnalysisDelay,
		now:        time.Now,
		sessions:   make(map[string]*analytics.Session),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SummaryCache exposes the cache so callers can run a janitor over it.
func (l *Ledger) SummaryCache() cache.Cleaner {
	return l.summaries
}

func (l *Ledger) Add(ctx context.Context, params expense.CreateParams) (*expense.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, err := l.expenses.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	l.refresh(ctx, params.Owner, events.ActionAdded)

	return e, nil
}

func (l *Ledger) Edit(ctx context.Context, owner string, id uuid.UUID, params expense.CreateParams) (*expense.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, err := l.expenses.Update(ctx, owner, id, params)
	if err != nil {
		return nil, err
	}

	l.refresh(ctx, owner, events.ActionEdited)

	return e, nil
}

func (l *Ledger) Remove(ctx context.Context, owner string, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.expenses.Delete(ctx, owner, id); err != nil {
		return err
	}

	l.refresh(ctx, owner, events.ActionRemoved)

	return nil
}

// Import stores every entry for owner in one batch. Nothing is stored when any
// entry is invalid. params is not modified.
func (l *Ledger) Import(ctx context.Context, owner string, params []expense.CreateParams) ([]*expense.Expense, error) {
	params = slices.Clone(params)
	for i := range params {
		params[i].Owner = owner
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	es, err := l.expenses.CreateBatch(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(es) > 0 {
		l.refresh(ctx, owner, events.ActionImported)
	}

	return es, nil
}

func (l *Ledger) Expense(ctx context.Context, owner string, id uuid.UUID) (*expense.Expense, error) {
	return l.expenses.Get(ctx, owner, id)
}

func (l *Ledger) Expenses(ctx context.Context, owner string, filter expense.ListFilter) ([]*expense.Expense, error) {
	return l.expenses.List(ctx, owner, filter)
}

// Summary returns the owner's current Summary, recomputing it on a cache miss
// or on every call when the cache is disabled.
func (l *Ledger) Summary(ctx context.Context, owner string) (analytics.Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached {
		if s, ok := l.summaries.Get(owner); ok {
			return s, nil
		}
	}

	s, _, err := l.recompute(ctx, owner)

	return s, err
}

func (l *Ledger) recompute(ctx context.Context, owner string) (analytics.Summary, int, error) {
	es, err := l.expenses.List(ctx, owner, expense.ListFilter{})
	if err != nil {
		return analytics.Summary{}, 0, fmt.Errorf("listing expenses: %w", err)
	}

	s := analytics.ComputeSummary(es)
	if l.cached {
		l.summaries.Set(owner, s)
	}

	return s, len(es), nil
}

// refresh runs after a successful mutation. Failures are logged rather than
// returned since the mutation itself is already stored.
func (l *Ledger) refresh(ctx context.Context, owner, action string) {
	s, count, err := l.recompute(ctx, owner)
	if err != nil {
		l.summaries.Delete(owner)
		slog.Error("failed to recompute summary", "owner", owner, "error", err)

		return
	}

	msg := events.ExpensesChanged{
		Owner:  owner,
		Action: action,
		Count:  count,
		Total:  s.Total,
		At:     l.now().UTC(),
	}

	if err := l.notifier.Publish(ctx, msg); err != nil {
		slog.Error("failed to publish change", "owner", owner, "action", action, "error", err)
	}
}

func (l *Ledger) Categories(ctx context.Context, owner string) ([]string, error) {
	return l.categories.List(ctx, owner)
}

func (l *Ledger) AddCategory(ctx context.Context, owner, name string) (string, error) {
	return l.categories.Add(ctx, owner, name)
}

func (l *Ledger) session(owner string) *analytics.Session {
	l.sessionsMu.Lock()
	defer l.sessionsMu.Unlock()

	s, ok := l.sessions[owner]
	if !ok {
		s = analytics.NewSession(l.generator)
		l.sessions[owner] = s
	}

	return s
}

func (l *Ledger) snapshot(ctx context.Context, owner string) ([]*expense.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	es, err := l.expenses.List(ctx, owner, expense.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	return es, nil
}

// StartAnalysis snapshots the owner's expenses and analyses them in the
// background. The run outlives ctx's cancellation but not CancelAnalysis.
func (l *Ledger) StartAnalysis(ctx context.Context, owner string) error {
	es, err := l.snapshot(ctx, owner)
	if err != nil {
		return err
	}

	sess := l.session(owner)

	ticket, ok := sess.Begin(es)
	if !ok {
		return analytics.ErrAnalysisInProgress
	}

	runCtx := context.WithoutCancel(ctx)

	l.running.Add(1)

	go func() {
		defer l.running.Done()

		_, err := sess.Await(runCtx, ticket, l.delay)
		if err != nil && !errors.Is(err, analytics.ErrResultDiscarded) {
			slog.Error("analysis failed", "owner", owner, "error", err)
		}
	}()

	return nil
}

// RunAnalysis analyses synchronously, honouring ctx during the delay.
func (l *Ledger) RunAnalysis(ctx context.Context, owner string) (analytics.Report, error) {
	es, err := l.snapshot(ctx, owner)
	if err != nil {
		return analytics.Report{}, err
	}

	return l.session(owner).Run(ctx, es, l.delay)
}

func (l *Ledger) Analysis(owner string) analytics.Status {
	return l.session(owner).Status()
}

func (l *Ledger) CancelAnalysis(owner string) bool {
	return l.session(owner).Cancel()
}

// Wait blocks until every background analysis has finished.
func (l *Ledger) Wait() {
	l.running.Wait()
}
