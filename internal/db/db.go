package db

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/jackc/pgx"
	"github.com/jackc/pgx/stdlib"
	"github.com/pressly/goose/v3"
)

// Connect opens a go-pg pool for url and verifies it with a ping.
func Connect(ctx context.Context, url string, maxConns int, maxConnLifetime time.Duration) (*pg.DB, error) {
	opt, err := pg.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	opt.MaxRetries = 3
	if maxConns > 0 {
		opt.PoolSize = maxConns
	}
	if maxConnLifetime > 0 {
		opt.MaxConnAge = maxConnLifetime
	}

	database := pg.Connect(opt)
	if err := database.Ping(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return database, nil
}

// RunMigrations applies the goose migrations found in dir.
func RunMigrations(ctx context.Context, url, dir string) error {
	config, err := pgx.ParseConnectionString(url)
	if err != nil {
		return fmt.Errorf("parse connection string: %w", err)
	}

	sqldb := stdlib.OpenDB(config)
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no migration files found in %s", dir)
	}

	if err := goose.UpContext(ctx, sqldb, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// QueryHook logs every executed statement.
type QueryHook struct {
	logger *slog.Logger
}

func NewQueryHook(logger *slog.Logger) *QueryHook {
	return &QueryHook{
		logger: logger,
	}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *pg.QueryEvent) (context.Context, error) {
	return ctx, nil
}

func (h *QueryHook) AfterQuery(ctx context.Context, event *pg.QueryEvent) error {
	query, err := event.FormattedQuery()
	if err != nil {
		h.logger.Error("failed to format query", "error", err)
		return nil
	}

	h.logger.Debug("SQL query executed",
		"query", string(query),
		"duration", time.Since(event.StartTime),
		"error", event.Err,
	)

	return nil
}
