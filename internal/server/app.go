// Package server wires configuration, storage, services and the HTTP
// transport together and runs them until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobboard/internal/server/rest"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
	"github.com/dmitrijs2005/jobboard/internal/server/storage"
)

// sqlOpen is a test seam for sql.Open.
var sqlOpen = sql.Open

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *rest.HTTPServer
}

// OpenDB connects to Postgres and applies pending migrations.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sqlOpen("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}
	return db, rm, nil
}

// NewUserService builds the login/registration service. The admin
// bootstrap command uses it without the rest of the app.
func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config,
	logger logging.Logger) (*services.UserService, *auth.TokenCodec, error) {

	codec, err := auth.NewTokenCodec([]byte(cfg.SecretKey), cfg.SigningAlgorithm)
	if err != nil {
		return nil, nil, err
	}
	hasher := auth.NewHasher(cfg.BcryptCost)
	return services.NewUserService(db, rm, hasher, codec, cfg, logger), codec, nil
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if cfg.AccessTokenValidityDuration > config.LongSessionWarning {
		logger.Warn(ctx, "access tokens are long-lived and cannot be revoked",
			"validity", cfg.AccessTokenValidityDuration.String())
	}

	db, rm, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us, codec, err := NewUserService(db, rm, cfg, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("auth init error: %w", err)
	}

	resolver := auth.NewResolver(codec, rm.Users(db))
	requireUser := auth.RequireUser(resolver)
	requireAdmin := auth.RequireAdmin(requireUser)

	gin.SetMode(gin.ReleaseMode)
	srv := rest.NewHTTPServer(cfg, logger, rest.Services{
		Users:        us,
		Profiles:     services.NewProfileService(db, rm, store, cfg, logger),
		Jobs:         services.NewJobService(db, rm, logger),
		Applications: services.NewApplicationService(db, rm, logger),
		Contacts:     services.NewContactService(db, rm, logger),
		Admin:        services.NewAdminService(db, rm, store, cfg, logger),
	}, requireUser, requireAdmin)

	return &App{config: cfg, logger: logger, db: db, httpServer: srv}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
