package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kgreeven-max/monopoly/monopoly"
	"github.com/Kgreeven-max/monopoly/monopoly/logger"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := monopoly.LoadConfig(*path)
	if err != nil {
		logger.LogError("Failed to load configuration", err)
		os.Exit(-1)
	}

	customHandler := logger.NewHandler(cfg.Log.Level, cfg.Log.AddSource)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Monopoly server",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	app := monopoly.New(*cfg, version, commit)
	if err := app.Setup(setupCtx); err != nil {
		logger.LogError("Failed to set up server", err)
		os.Exit(-1)
	}
	defer app.Shutdown()

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	httpServer := &http.Server{
		Addr:    addr,
		Handler: app.Server.Handler(),
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info("HTTP server listening", slog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		slog.Info("Shutting down...")

		timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.LogError("Server exited with error", err)
		os.Exit(-1)
	}
	logger.LogSystem("Server stopped")
}
