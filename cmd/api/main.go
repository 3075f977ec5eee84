package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/spendlens/internal/app"
	"github.com/MrJamesThe3rd/spendlens/internal/auth"
	"github.com/MrJamesThe3rd/spendlens/internal/cache"
	"github.com/MrJamesThe3rd/spendlens/internal/config"
	spendHttp "github.com/MrJamesThe3rd/spendlens/internal/http"
	analysisHandler "github.com/MrJamesThe3rd/spendlens/internal/http/analysis"
	assistantHandler "github.com/MrJamesThe3rd/spendlens/internal/http/assistant"
	categoryHandler "github.com/MrJamesThe3rd/spendlens/internal/http/category"
	expenseHandler "github.com/MrJamesThe3rd/spendlens/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/spendlens/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/spendlens/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/spendlens/internal/http/matching"
	reportHandler "github.com/MrJamesThe3rd/spendlens/internal/http/report"
	sessionHandler "github.com/MrJamesThe3rd/spendlens/internal/http/session"
	summaryHandler "github.com/MrJamesThe3rd/spendlens/internal/http/summary"
	"github.com/MrJamesThe3rd/spendlens/internal/logging"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.App.Name, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var issuer *auth.Issuer
	if cfg.Auth.Enabled {
		issuer = auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	}

	router := spendHttp.New(spendHttp.Handlers{
		Sessions:   sessionHandler.NewHandler(issuer),
		Expenses:   expenseHandler.NewHandler(a.Ledger, a.Currency),
		Categories: categoryHandler.NewHandler(a.Ledger),
		Summary:    summaryHandler.NewHandler(a.Ledger, a.Currency),
		Analysis:   analysisHandler.NewHandler(a.Ledger, a.Currency),
		Assistant:  assistantHandler.NewHandler(a.Ledger, a.Assistant, a.Currency),
		Import:     importHandler.NewHandler(a.Importer, a.Ledger, a.Currency),
		Rules:      matchingHandler.NewHandler(a.Rules),
		Reports:    reportHandler.NewHandler(a.Ledger, a.Currency),
		Export:     exportHandler.NewHandler(a.Exporter),
	}, issuer, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr, "auth", issuer != nil)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		cache.RunJanitor(ctx, janitorInterval, a.Ledger.SummaryCache())
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
