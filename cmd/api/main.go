package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"wrong-calculator/internal/calculator"
	"wrong-calculator/internal/config"
	"wrong-calculator/internal/core"
	"wrong-calculator/internal/journal"
	"wrong-calculator/internal/observability"
	"wrong-calculator/internal/server"
	"wrong-calculator/internal/session"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Telemetry
	shutdown, err := initTelemetry(ctx, cfg.Telemetry, cfg.LogLevel)
	if err != nil {
		observability.Logger.Fatal("telemetry init failed", zap.Error(err))
	}
	defer shutdown(ctx)

	// Sessions
	store, closeStore, err := session.Open(ctx, cfg.Session, observability.Logger)
	if err != nil {
		observability.Logger.Fatal("session store init failed", zap.Error(err), zap.String("store", cfg.Session.Store))
	}
	defer closeStore()

	err = observability.RegisterGauge(prometheus.DefaultRegisterer,
		"wrongcalc_sessions_active", "Calculator sessions currently held by the store.",
		func() float64 {
			n, err := store.Len(context.Background())
			if err != nil {
				return -1
			}
			return float64(n)
		},
	)
	if err != nil {
		observability.Logger.Fatal("sessions gauge registration failed", zap.Error(err))
	}

	// Journal
	j, err := journal.New(cfg.Journal, observability.Logger)
	if err != nil {
		observability.Logger.Fatal("journal init failed", zap.Error(err))
	}
	defer j.Close()

	// Router
	calc := calculator.NewHandler(store, j, randomSource(cfg.Seed))
	router := server.NewRouter(calc)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("session_store", cfg.Session.Store),
			zap.String("journal", cfg.Journal.Sink),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv)
}

// randomSource returns the wall clock for seed 0 and a reproducible
// generator otherwise.
func randomSource(seed uint64) core.Source {
	if seed == 0 {
		return core.ClockSource{}
	}
	return core.NewSeededSource(seed)
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Warn("server shutdown", zap.Error(err))
	}
	observability.Logger.Info("server stopped")
}
