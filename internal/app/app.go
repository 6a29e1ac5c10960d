// Package app wires configuration, storage, use cases and the HTTP server
// together and runs them until the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/adapter/repository/postgres"
	"github.com/vadimbarashkov/shortlink/internal/adapter/repository/sqlite"
	"github.com/vadimbarashkov/shortlink/internal/codegen"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/internal/usecase"
	"github.com/vadimbarashkov/shortlink/migrations"
	"github.com/vadimbarashkov/shortlink/pkg/database"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/shortlink/internal/adapter/delivery/http"
)

type shortlinkRepository interface {
	Exists(ctx context.Context, shortURL string) (bool, error)
	Save(ctx context.Context, link *entity.Shortlink) (*entity.Shortlink, error)
	RetrieveAndIncrement(ctx context.Context, shortURL string) (string, error)
	RetrieveByKey(ctx context.Context, shortURL, adminKey string) (*entity.Shortlink, error)
	Remove(ctx context.Context, shortURL, adminKey string) error
}

// openStorage migrates and connects to the configured storage engine.
func openStorage(ctx context.Context, cfg *config.Config) (*sqlx.DB, shortlinkRepository, error) {
	const op = "app.openStorage"

	switch cfg.Storage {
	case config.StoragePostgres:
		if err := database.Migrate(migrations.FS, migrations.PostgresDir, cfg.Postgres.DSN()); err != nil {
			return nil, nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
		}

		db, err := database.Connect(
			ctx,
			cfg.Postgres.DSN(),
			database.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			database.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			database.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			database.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
		}

		return db, postgres.NewShortlinkRepository(db), nil
	case config.StorageSQLite:
		if err := database.Migrate(migrations.FS, migrations.SQLiteDir, cfg.SQLite.MigrationURL()); err != nil {
			return nil, nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
		}

		db, err := database.ConnectSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
		}

		return db, sqlite.NewShortlinkRepository(db), nil
	default:
		return nil, nil, fmt.Errorf("%s: unsupported storage %q", op, cfg.Storage)
	}
}

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	db, repo, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	gen, err := codegen.New(cfg.Shortlink.Alphabet, cfg.Shortlink.ShortCodeLength, cfg.Shortlink.AdminKeyLength)
	if err != nil {
		return fmt.Errorf("%s: failed to create code generator: %w", op, err)
	}

	uc := usecase.New(repo, gen, usecase.WithMaxRetries(cfg.Shortlink.MaxRetries))

	r := delivery.NewRouter(logger, uc, db, delivery.RouterConfig{
		BaseURL:          cfg.HTTPServer.BaseURL,
		RootPath:         cfg.HTTPServer.RootPath,
		CreateRateLimit:  cfg.HTTPServer.RateLimit.Requests,
		CreateRateWindow: cfg.HTTPServer.RateLimit.Window,
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        r,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			"addr", server.Addr,
			"env", cfg.Env,
			"storage", cfg.Storage,
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
