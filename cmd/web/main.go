package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AdamBeresnev/tennis-leagues/internal/config"
	"github.com/AdamBeresnev/tennis-leagues/internal/db"
	"github.com/AdamBeresnev/tennis-leagues/internal/email"
	"github.com/AdamBeresnev/tennis-leagues/internal/metrics"
	"github.com/AdamBeresnev/tennis-leagues/internal/middleware"
	"github.com/AdamBeresnev/tennis-leagues/internal/scheduler"
	"github.com/AdamBeresnev/tennis-leagues/internal/service"
	"github.com/AdamBeresnev/tennis-leagues/internal/storage"
	"github.com/AdamBeresnev/tennis-leagues/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

func newSessionManager(cfg config.SessionConfig) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Lifetime
	sessionManager.Cookie.Name = cfg.CookieName
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Secure = cfg.Secure
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	return sessionManager
}

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	configPath := flag.String("config", defaultPath, "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB, cfg.Database.MigrationsDir); err != nil {
		return err
	}

	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to configure email: %w", err)
	}

	var uploader storage.FileUploader
	if cfg.Storage.Enabled() {
		uploader, err = storage.NewS3Uploader(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to configure storage: %w", err)
		}
	} else {
		log.Warn().Msg("Storage credentials missing, league logo uploads disabled")
	}

	middleware.InitAuth(cfg.OAuth)

	sessionManager := newSessionManager(cfg.Session)
	sessionManager.Store = sqlite3store.New(database.DB)

	m := metrics.New()
	userStore := store.NewUserStore(database)
	app := &application{
		cfg:      cfg,
		db:       database,
		sessions: sessionManager,
		users:    userStore,
		accounts: service.NewAccountService(database, userStore, store.NewCodeStore(database), sender),
		leagues:  service.NewLeagueService(database, store.NewLeagueStore(database), uploader, m),
		metrics:  m,
	}

	jobs, err := scheduler.New()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if _, err := jobs.RegisterCodeCleanup(app.accounts, m, cfg.Cleanup.Interval); err != nil {
		return fmt.Errorf("failed to register cleanup job: %w", err)
	}
	jobs.Start()

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: newRouter(app),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := jobs.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}
