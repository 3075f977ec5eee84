package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/spendlens/internal/auth"
	"github.com/MrJamesThe3rd/spendlens/internal/http/analysis"
	"github.com/MrJamesThe3rd/spendlens/internal/http/assistant"
	"github.com/MrJamesThe3rd/spendlens/internal/http/category"
	"github.com/MrJamesThe3rd/spendlens/internal/http/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/http/export"
	"github.com/MrJamesThe3rd/spendlens/internal/http/importcsv"
	"github.com/MrJamesThe3rd/spendlens/internal/http/matching"
	"github.com/MrJamesThe3rd/spendlens/internal/http/report"
	"github.com/MrJamesThe3rd/spendlens/internal/http/session"
	"github.com/MrJamesThe3rd/spendlens/internal/http/summary"
)

type Handlers struct {
	Sessions   *session.Handler
	Expenses   *expense.Handler
	Categories *category.Handler
	Summary    *summary.Handler
	Analysis   *analysis.Handler
	Assistant  *assistant.Handler
	Import     *importcsv.Handler
	Rules      *matching.Handler
	Reports    *report.Handler
	Export     *export.Handler
}

// New mounts the v1 API. A nil issuer disables token auth; see auth.Middleware.
func New(v1 Handlers, issuer *auth.Issuer, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", auth.SessionHeader},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", v1.Sessions.Routes)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer))

			r.Route("/expenses", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Expenses.Routes(r)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Categories.Routes(r)
			})

			r.Route("/summary", v1.Summary.Routes)
			r.Route("/analysis", v1.Analysis.Routes)

			r.Route("/assistant", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Assistant.Routes(r)
			})

			r.Route("/rules", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Rules.Routes(r)
			})

			r.Route("/import", v1.Import.Routes)
			r.Route("/reports", v1.Reports.Routes)
			r.Route("/export", v1.Export.Routes)
		})
	})

	return router
}
