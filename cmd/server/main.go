package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docsum/internal/app"
	"docsum/internal/config"
	"docsum/internal/logger"
)

func main() {
	// ──── Step 1: Configuration ────
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "", false)
		boot.Fatal("configuration failed", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel, cfg.LogFile, cfg.IsProduction())
	defer log.Sync()
	if cfg.EphemeralSecret {
		log.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Wire components ────
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	// ──── Step 3: Serve until signalled ────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      a.Handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("docsum ready", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}
