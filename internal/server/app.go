// Package server wires configuration, storage, the auth services and the
// HTTP and gRPC transports into a runnable application.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/config"
	"github.com/dmitrijs2005/clubevent/internal/server/httpapi"
	"github.com/dmitrijs2005/clubevent/internal/server/metrics"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/clubevent/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gs "github.com/dmitrijs2005/clubevent/internal/server/grpc"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	registry *prometheus.Registry
	auth     *services.AuthService
	promo    *services.PromotionService
}

// NewApp validates c, opens the database and builds the services. A
// missing signing key outside development is a startup failure.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(out, c.LogLevel)

	insecure, err := c.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if insecure {
		logger.Warn(ctx, "using the built-in development signing key; tokens are forgeable",
			"environment", c.Environment)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if c.RunMigrations {
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	return newApp(c, logger, db, rm)
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	issuer, err := auth.NewTokenIssuer([]byte(c.SecretKey))
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hasher := auth.NewBcryptHasher(c.BcryptCost)
	verifier := services.NewVerifier(db, rm, hasher, logger, m, c.MigrationWriteTimeout)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		registry: reg,
		auth:     services.NewAuthService(db, rm, hasher, issuer, verifier, logger, m),
		promo:    services.NewPromotionService(db, rm, logger, m),
	}, nil
}

// shutdownSignals stop a running App.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.auth, app.promo)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.auth, app.promo, app.logger,
		promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// Run serves both transports until ctx is canceled, a signal arrives or
// either server fails.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")

	if err := app.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}
