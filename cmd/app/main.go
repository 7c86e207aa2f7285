package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/namsral/flag"

	"github.com/daniilsolovey/newsfeed/config"
	_ "github.com/daniilsolovey/newsfeed/docs"
	"github.com/daniilsolovey/newsfeed/internal/app"
)

var (
	flConfig      = flag.String("config", "config.toml", "path to TOML configuration file")
	flDebug       = flag.Bool("debug", false, "enable debug mode")
	flDatabaseURL = flag.String("database-url", "", "postgres connection URL, overrides the config file")
	flStorage     = flag.String("storage", "", "storage driver (postgres, badger, memory), overrides the config file")
	lg            *slog.Logger
)

// @title Newsfeed API
// @version 1.0
// @description Stories and tags with live websocket updates.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	flag.Parse()

	lg = newLogger(*flDebug)

	cfg, err := config.Load(*flConfig)
	exitOnError(err)

	if *flDatabaseURL != "" {
		cfg.Database.URL = *flDatabaseURL
	}
	if *flStorage != "" {
		cfg.Storage.Driver = *flStorage
		exitOnError(cfg.Validate())
	}
	if *flDebug {
		cfg.Database.LogQueries = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service, err := app.New(ctx, cfg, lg)
	exitOnError(err)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		err := service.Run(ctx)
		if err != nil {
			lg.Error("service run failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	lg.Info("service stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	err = service.GracefulShutdown(shutdownCtx)
	if err != nil {
		lg.Error("service graceful shutdown failed", "error", err)
	}
}

func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func exitOnError(err error) {
	if err != nil {
		lg.Error("app init failed", "error", err)
		os.Exit(1)
	}
}
