package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/history"
	"github.com/i474232898/weather-lookup/internal/scheduler"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func runServer() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	connectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	historyStore, err := openHistoryStore(connectCtx, cfg)
	if err != nil {
		return fmt.Errorf("open %s history store: %w", cfg.HistoryBackend, err)
	}
	defer historyStore.Close()

	// An unreachable store does not stop the server; weather lookups keep
	// working and /health reports the store as down until it recovers.
	if err := historyStore.Ping(connectCtx); err != nil {
		log.Warnw("history store unavailable", "backend", cfg.HistoryBackend, "err", err)
	} else {
		log.Infow("history store ready", "backend", cfg.HistoryBackend)
	}
	cancel()

	recorder := history.NewRecorder(historyStore, log, cfg.HistorySaveTimeout)

	// Periodic store check feeding /health.
	sched := scheduler.New(historyStore, cfg.HistoryBackend, cfg.HealthCheckInterval, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(log, true)
	httpapi.RegisterRoutes(app, httpapi.Dependencies{
		Weather:  newWeatherService(cfg, log),
		History:  historyStore,
		Recorder: recorder,
		Health:   sched,
		Logger:   log,
	})

	listenErr := make(chan error, 1)
	go func() {
		log.Infow("listening", "port", cfg.Port)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-listenErr:
		recorder.Wait()
		return fmt.Errorf("fiber server stopped: %w", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "err", err)
	}

	// Let in-flight history writes land before the store closes.
	recorder.Wait()
	return nil
}
