package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daniilsolovey/newsfeed/config"
	"github.com/daniilsolovey/newsfeed/internal/auth"
	"github.com/daniilsolovey/newsfeed/internal/badgerstore"
	"github.com/daniilsolovey/newsfeed/internal/blob"
	"github.com/daniilsolovey/newsfeed/internal/broadcast"
	"github.com/daniilsolovey/newsfeed/internal/db"
	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/memstore"
	"github.com/daniilsolovey/newsfeed/internal/newsportal"
	"github.com/daniilsolovey/newsfeed/internal/ratelimit"
	"github.com/daniilsolovey/newsfeed/internal/rest"
	"github.com/daniilsolovey/newsfeed/internal/rpc"
)

type App struct {
	Logger  *slog.Logger
	Config  config.Config
	Echo    *echo.Echo
	Hub     *broadcast.Hub
	Manager *newsportal.Manager

	limiter   *ratelimit.KeyedRateLimiter
	closeRepo func() error
}

// New opens the configured store and wires every component. Nothing listens until Run.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a, err := build(ctx, cfg, logger, repo)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}
	a.closeRepo = closeRepo

	return a, nil
}

func build(ctx context.Context, cfg config.Config, logger *slog.Logger, repo newsportal.Repository) (*App, error) {
	blobs, err := blob.NewDiskStore(cfg.Blob.Dir, cfg.Blob.URLPrefix, cfg.Blob.MaxImageSize, logger)
	if err != nil {
		return nil, err
	}

	gate, err := auth.NewGate(cfg.Auth.Secret, cfg.Auth.TokenTTL.Duration, authUsers(cfg.Auth.Users))
	if err != nil {
		return nil, fmt.Errorf("auth gate: %w", err)
	}
	if len(cfg.Auth.Users) == 0 {
		logger.Warn("no users configured, write endpoints are unreachable")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hub := broadcast.NewHub(logger, cfg.Broadcast.EventBuffer, cfg.Broadcast.ClientBuffer, reg)
	manager := newsportal.NewManager(repo, blobs, logger, newsportal.WithPublisher(hub))

	if cfg.Storage.SeedDefaultTags {
		n, err := manager.SeedDefaultTags(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed default tags: %w", err)
		}
		if n > 0 {
			logger.Info("default tags created", "count", n)
		}
	}

	limiter := ratelimit.PerMinute(cfg.Auth.LoginPerMinute)
	ws := broadcast.NewHandler(hub, logger, cfg.App.AllowedOrigins,
		cfg.Broadcast.PingInterval.Duration, cfg.Broadcast.WriteTimeout.Duration)

	handler := rest.NewNewsHandler(manager, gate, logger)
	e := handler.RegisterRoutes(rest.Options{
		AllowedOrigins: cfg.App.AllowedOrigins,
		BodyLimit:      cfg.App.BodyLimit,
		LoginLimiter:   limiter,
		WebSocket:      ws.Serve,
		RPC:            rpc.New(logger, manager),
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		UploadsPrefix:  cfg.Blob.URLPrefix,
		UploadsDir:     blobs.Dir(),
	})

	return &App{
		Logger:    logger,
		Config:    cfg,
		Echo:      e,
		Hub:       hub,
		Manager:   manager,
		limiter:   limiter,
		closeRepo: func() error { return nil },
	}, nil
}

func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (newsportal.Repository, func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return memstore.New(), func() error { return nil }, nil

	case config.DriverBadger:
		store, err := badgerstore.Open(cfg.Storage.BadgerDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		if cfg.Database.AutoMigrate {
			if err := db.RunMigrations(ctx, cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
				return nil, nil, fmt.Errorf("migrations: %w", err)
			}
		}

		conn, err := db.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MaxConnLifetime.Duration)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.LogQueries {
			conn.AddQueryHook(db.NewQueryHook(logger))
		}

		repo := db.New(conn)
		return repo, repo.Close, nil
	}
}

func authUsers(users []config.User) []auth.User {
	out := make([]auth.User, 0, len(users))
	for _, u := range users {
		out = append(out, auth.User{
			ID:           u.ID,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         domain.Role(u.Role),
		})
	}
	return out
}

// Run starts the broadcast hub and serves HTTP until GracefulShutdown.
func (a *App) Run(ctx context.Context) error {
	go a.Hub.Start(ctx)

	addr := net.JoinHostPort(a.Config.App.Host, strconv.Itoa(a.Config.App.Port))
	a.Logger.Info("http server listening", "addr", addr, "storage", a.Config.Storage.Driver)

	if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// GracefulShutdown stops accepting requests first, then drains the hub so in-flight
// events still reach connected viewers, then closes the store.
func (a *App) GracefulShutdown(ctx context.Context) error {
	var errs []error

	if err := a.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.Hub.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("hub shutdown: %w", err))
	}
	a.limiter.Stop()
	if err := a.closeRepo(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	return errors.Join(errs...)
}
