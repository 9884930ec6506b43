// Package server initializes and runs the artefact register server. It wires
// the configuration, logger, database, image storage backend, services, and
// HTTP router, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avolkovs/artefactreg/internal/logging"
	"github.com/avolkovs/artefactreg/internal/server/config"
	serverhttp "github.com/avolkovs/artefactreg/internal/server/http"
	"github.com/avolkovs/artefactreg/internal/server/repositories/repomanager"
	"github.com/avolkovs/artefactreg/internal/server/services"
	"github.com/avolkovs/artefactreg/internal/server/storage"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func newLogger(c *config.Config) (logging.Logger, error) {
	switch c.LogBackend {
	case config.LogBackendZap:
		zl, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("zap init error: %w", err)
		}
		return logging.NewZapLogger(zl), nil
	default:
		return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))), nil
	}
}

func newStorageBackend(ctx context.Context, c *config.Config) (storage.Backend, string, error) {
	switch c.StorageBackend {
	case config.StorageBackendS3:
		s, err := storage.NewS3(ctx, storage.S3Options{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, "", fmt.Errorf("s3 init error: %w", err)
		}
		return s, "", nil
	default:
		l, err := storage.NewLocal(c.StorageDir, c.BaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("local storage init error: %w", err)
		}
		return l, l.Dir(), nil
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := &repomanager.PostgresRepositoryManager{}
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, imageDir, err := newStorageBackend(ctx, c)
	if err != nil {
		return nil, err
	}

	userService := services.NewUserService(db, m, c)
	artefactService := services.NewArtefactService(db, m, store, logger, c)

	handler := serverhttp.NewRouter(
		&serverhttp.AuthHandler{Users: userService},
		&serverhttp.ArtefactHandler{Artefacts: artefactService},
		[]byte(c.SecretKey),
		logger,
		imageDir,
	)

	return &App{config: c, logger: logger, db: db, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	server := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

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
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
