package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/carebridge/complaint-intake/internal/api/router"
	appconfig "github.com/carebridge/complaint-intake/internal/config"
	"github.com/carebridge/complaint-intake/internal/dialogue"
	"github.com/carebridge/complaint-intake/internal/intake"
	"github.com/carebridge/complaint-intake/internal/nlu"
	"github.com/carebridge/complaint-intake/internal/observability/metrics"
	"github.com/carebridge/complaint-intake/internal/records"
	"github.com/carebridge/complaint-intake/internal/session"
	"github.com/carebridge/complaint-intake/pkg/logging"
)

func main() {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting complaint-intake API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}

	var submissions intake.SubmissionStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err.Error())
			os.Exit(1)
		}
		defer pool.Close()
		submissions = records.NewStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, finalized complaints will not be persisted")
	}

	llmClient, cleanup, err := buildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize language models", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	intakeMetrics := metrics.NewIntakeMetrics(nil)
	engine := dialogue.NewEngine(
		nlu.NewLLMPort(nlu.NewTimeoutLLMClient(llmClient, cfg.NLUTimeout), logger),
		dialogue.WithLogger(logger),
		dialogue.WithMetrics(intakeMetrics),
		dialogue.WithMaxQuestions(cfg.MaxQuestions),
		dialogue.WithDefaultLocation(cfg.DefaultLocation),
	)

	sessions := session.NewStore(redisClient, cfg.SessionTTL)
	service := intake.NewService(engine, sessions, submissions, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      intake.NewHandler(service, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildLLMClient assembles the primary/fallback completion stack from
// whichever providers are configured. At least one key is required.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (nlu.LLMClient, func(), error) {
	cleanup := func() {}

	var primary nlu.LLMClient
	if cfg.OpenAIAPIKey != "" {
		client, err := nlu.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, cleanup, err
		}
		primary = client
	}

	var fallback nlu.LLMClient
	if cfg.GeminiAPIKey != "" {
		client, err := nlu.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { _ = client.Close() }
		fallback = client
	}

	switch {
	case primary != nil && fallback != nil:
		logger.Info("language models configured", "primary", cfg.OpenAIModel, "fallback", cfg.GeminiModel)
		return nlu.NewFallbackLLMClient(primary, fallback, logger.Logger), cleanup, nil
	case primary != nil:
		logger.Info("language model configured", "primary", cfg.OpenAIModel)
		return primary, cleanup, nil
	case fallback != nil:
		logger.Info("language model configured", "primary", cfg.GeminiModel)
		return fallback, cleanup, nil
	default:
		return nil, cleanup, errOpenAIOrGeminiRequired
	}
}

var errOpenAIOrGeminiRequired = errors.New("OPENAI_API_KEY or GEMINI_API_KEY must be set")
