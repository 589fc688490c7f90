package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CAFxX/httpcompression"

	"github.com/msomdec/focusdoro/internal/config"
	"github.com/msomdec/focusdoro/internal/handler"
	"github.com/msomdec/focusdoro/internal/repository/sqlite"
	"github.com/msomdec/focusdoro/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	authService := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost, time.Duration(cfg.TokenTTLHours)*time.Hour)
	statsService := service.NewStatisticsService(db.Statistics())
	timerService := service.NewTimerService(db.Timers(), statsService)
	subService := service.NewSubscriptionService(db.Subscriptions(), service.NewPaymentProcessor())
	taskService := service.NewTaskService(db.Tasks(), subService, cfg.FreeTaskLimit)

	if err := subService.StartExpirySweep(cfg.ExpirySweepSchedule); err != nil {
		slog.Error("failed to start expiry sweep", "error", err)
		os.Exit(1)
	}
	defer subService.StopExpirySweep()

	// 5 req/s burst 10 per client IP on login/register.
	loginLimiter := service.NewTokenBucket(5, 10)
	defer loginLimiter.Close()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, timerService, statsService, subService, taskService, loginLimiter)

	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		slog.Error("failed to create compression adapter", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.SecurityHeaders(handler.CORS(compress(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
