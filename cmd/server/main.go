package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/whisperbox/whisperbox/config"
	"github.com/whisperbox/whisperbox/internal/email"
	"github.com/whisperbox/whisperbox/internal/genai"
	"github.com/whisperbox/whisperbox/internal/health"
	"github.com/whisperbox/whisperbox/internal/infrastructure/postgres"
	ctxlog "github.com/whisperbox/whisperbox/internal/log"
	"github.com/whisperbox/whisperbox/internal/maintenance"
	"github.com/whisperbox/whisperbox/internal/metrics"
	httptransport "github.com/whisperbox/whisperbox/internal/transport/http"
	"github.com/whisperbox/whisperbox/internal/transport/http/handler"
	"github.com/whisperbox/whisperbox/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrations: %v", err)
	}

	userRepo := postgres.NewUserRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)

	sessionTTL := time.Duration(cfg.SessionTTLHr) * time.Hour
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	authUsecase := usecase.NewAuthUsecase(userRepo, sender, []byte(cfg.JWTSecret), sessionTTL)
	authHandler := handler.NewAuthHandler(authUsecase, logger, sessionTTL, cfg.Env != "local")

	inboxUsecase := usecase.NewInboxUsecase(userRepo, messageRepo)
	inboxHandler := handler.NewInboxHandler(inboxUsecase, logger)

	generator := genai.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	suggestUsecase := usecase.NewSuggestUsecase(generator)
	suggestHandler := handler.NewSuggestHandler(suggestUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	pruner := maintenance.NewPruner(userRepo, logger, cfg.PruneSchedule)
	go func() {
		if err := pruner.Start(ctx); err != nil {
			logger.Error("pruner", "error", err)
		}
	}()

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, inboxHandler, suggestHandler, []byte(cfg.JWTSecret)),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
