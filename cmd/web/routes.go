package main

import (
	"net/http"

	"github.com/AdamBeresnev/tennis-leagues/internal/config"
	"github.com/AdamBeresnev/tennis-leagues/internal/metrics"
	"github.com/AdamBeresnev/tennis-leagues/internal/middleware"
	"github.com/AdamBeresnev/tennis-leagues/internal/service"
	"github.com/AdamBeresnev/tennis-leagues/internal/store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"golang.org/x/time/rate"
)

type application struct {
	cfg      *config.Config
	db       *sqlx.DB
	sessions *scs.SessionManager
	users    *store.UserStore
	accounts *service.AccountService
	leagues  *service.LeagueService
	metrics  *metrics.Metrics
}

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.WithRequestID)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithRecovery)
	r.Use(app.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimiddleware.Timeout(app.cfg.App.RequestTimeout))

	r.Get("/healthz", app.healthz)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	requireAuth := middleware.RequireAuth(app.sessions, app.users)
	limiter := middleware.NewIPRateLimiter(rate.Limit(app.cfg.RateLimit.RequestsPerSecond), app.cfg.RateLimit.Burst)

	r.Group(func(r chi.Router) {
		r.Use(app.sessions.LoadAndSave)

		r.Route("/account", func(r chi.Router) {
			r.Use(middleware.RateLimit(limiter))

			r.Post("/register", app.register)
			r.Post("/login", app.login)
			r.Post("/resetPassword", app.initiatePasswordReset)
			r.Patch("/resetPassword", app.completePasswordReset)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/verifyEmail", app.verifyEmail)
				r.Patch("/changePassword", app.changePassword)
				r.Post("/logout", app.logout)
			})
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/leagues", app.listLeagues)
			r.Get("/leagueTable/{leagueID}", app.leagueTable)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/allFixtures/{leagueID}", app.generateFixtures)
				r.Put("/result", app.submitResult)
				r.Post("/player", app.createPlayer)
				r.Patch("/player", app.movePlayer)
				r.Post("/league", app.createLeague)
				r.Put("/league/{leagueID}/logo", app.uploadLogo)
			})
		})

		r.Get("/leagues/{leagueID}", app.leaguePage)
		r.Get("/auth/{provider}", app.beginOAuth)
		r.Get("/auth/{provider}/callback", app.completeOAuth)
	})

	return r
}
