// Package app assembles the services shared by the binaries from a Config.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/spendlens/internal/assistant"
	"github.com/MrJamesThe3rd/spendlens/internal/category"
	categoryStore "github.com/MrJamesThe3rd/spendlens/internal/category/store"
	"github.com/MrJamesThe3rd/spendlens/internal/config"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/database"
	"github.com/MrJamesThe3rd/spendlens/internal/events"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/spendlens/internal/expense/store"
	"github.com/MrJamesThe3rd/spendlens/internal/export"
	"github.com/MrJamesThe3rd/spendlens/internal/importer"
	"github.com/MrJamesThe3rd/spendlens/internal/ledger"
	"github.com/MrJamesThe3rd/spendlens/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/spendlens/internal/matching/store"
	"github.com/MrJamesThe3rd/spendlens/internal/memory"
)

type App struct {
	Ledger    *ledger.Ledger
	Currency  currency.Converter
	Assistant *assistant.Service
	Importer  *importer.Service
	Rules     *matching.Service
	Exporter  *export.Service

	db     *sql.DB
	broker *events.AMQP
}

// New opens the configured storage, running migrations for SQL backends, and
// connects the change notifier when AMQP_URL is set.
func New(cfg *config.Config) (*App, error) {
	rate, err := cfg.ConversionRate()
	if err != nil {
		return nil, err
	}

	conv, err := currency.NewConverter(cfg.Currency.Display, rate)
	if err != nil {
		return nil, fmt.Errorf("currency: %w", err)
	}

	a := &App{Currency: conv}

	var (
		expenseRepo  expense.Repository
		categoryRepo category.Repository
		ruleRepo     matching.Repository
	)

	if cfg.App.Storage == config.StorageMemory {
		expenseRepo = memory.NewExpenseStore()
		categoryRepo = memory.NewCategoryStore()
		ruleRepo = memory.NewRuleStore()
	} else {
		driver, dsn := cfg.DSN()

		if err := database.Migrate(driver, dsn); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		a.db, err = database.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		dialect := database.Dialect(driver)
		expenseRepo = expenseStore.New(a.db, dialect)
		categoryRepo = categoryStore.New(a.db, dialect)
		ruleRepo = matchingStore.New(a.db, dialect)
	}

	opts := []ledger.Option{ledger.WithAnalysisDelay(cfg.Analysis.Delay)}

	// SQL storage may be written by other processes (the CLI next to the API
	// or TUI), so only memory storage may serve summaries from the cache.
	if cfg.App.Storage == config.StorageMemory {
		opts = append(opts, ledger.WithSummaryCache(cfg.Analysis.CacheSize, cfg.Analysis.CacheTTL))
	} else {
		opts = append(opts, ledger.WithoutSummaryCache())
	}

	if cfg.AMQP.URL != "" {
		a.broker, err = events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			a.Close()
			return nil, err
		}

		opts = append(opts, ledger.WithNotifier(a.broker))
	}

	var gen assistant.Generator
	if cfg.Gemini.APIKey != "" {
		gen = assistant.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model)
	}

	a.Assistant = assistant.NewService(gen)
	a.Rules = matching.NewService(ruleRepo)
	a.Importer = importer.NewService(a.Rules)
	a.Ledger = ledger.New(expense.NewService(expenseRepo), category.NewService(categoryRepo), opts...)
	a.Exporter = export.NewService(a.Ledger, conv)

	slog.Info("storage ready", "storage", cfg.App.Storage, "amqp", a.broker != nil, "assistant", gen != nil)

	return a, nil
}

// Broker returns the AMQP connection, or nil when none is configured.
func (a *App) Broker() *events.AMQP {
	return a.broker
}

// Close waits for background analyses and releases connections.
func (a *App) Close() error {
	if a.Ledger != nil {
		a.Ledger.Wait()
	}

	var errs []error

	if a.broker != nil {
		errs = append(errs, a.broker.Close())
	}

	if a.db != nil {
		errs = append(errs, a.db.Close())
	}

	return errors.Join(errs...)
}
