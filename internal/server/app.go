// Package server initializes and runs the application server. It wires the
// database, repositories and services together, starts the HTTP API and the
// token sweeper, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/mlorenc/gotodo/internal/logging"
	"github.com/mlorenc/gotodo/internal/server/config"
	"github.com/mlorenc/gotodo/internal/server/httpapi"
	"github.com/mlorenc/gotodo/internal/server/repositories/repomanager"
	"github.com/mlorenc/gotodo/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *services.SessionService
	api         *httpapi.Server
	scheduler   *gocron.Scheduler
}

func NewApp(cfg *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	users := services.NewUserService(db, rm)
	sessions := services.NewSessionService(db, rm, cfg)
	todos := services.NewTodoService(db, rm)
	images := services.NewImageService(db, rm, cfg, logger)

	api := httpapi.NewServer(cfg, logger, users, sessions, todos, images)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repomanager: rm,
		sessions:    sessions,
		api:         api,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// startSweeper schedules the daily cleanup of expired refresh token rows.
func (app *App) startSweeper() {
	s := gocron.NewScheduler(time.Local)

	s.Every(1).Day().Do(func() {
		ctx := context.Background()
		if err := app.sessions.SweepExpiredTokens(ctx); err != nil {
			app.logger.Error(ctx, "token sweep failed", "error", err.Error())
			return
		}
		app.logger.Info(ctx, "expired refresh tokens swept")
	})

	s.StartAsync()
	app.scheduler = s
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "HTTP server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err.Error())
		return
	}

	app.initSignalHandler(cancelFunc)
	app.startSweeper()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
