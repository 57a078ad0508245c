// Command server starts the SoulEase guidance HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/soulease/guidance/internal/adapter/ai/groq"
	"github.com/soulease/guidance/internal/adapter/content"
	httpserver "github.com/soulease/guidance/internal/adapter/httpserver"
	"github.com/soulease/guidance/internal/adapter/observability"
	redisstore "github.com/soulease/guidance/internal/adapter/store/redis"
	"github.com/soulease/guidance/internal/app"
	"github.com/soulease/guidance/internal/config"
	"github.com/soulease/guidance/internal/service/quota"
	"github.com/soulease/guidance/internal/usecase"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Infra: session store.
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()
	store := redisstore.New(rdb)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(ctx); err != nil {
		slog.Warn("redis not reachable at startup", slog.Any("error", err))
	}
	cancel()

	// Completion client and advisory quota counter.
	client := groq.New(cfg)
	if !client.IsConfigured() {
		slog.Warn("completion client not configured; guidance endpoints will return NOT_CONFIGURED")
	}
	quotaWindow := quota.NewWindow(cfg.QuotaPerMinute, time.Minute)

	// Content providers.
	verses := content.NewQuranClient(cfg.QuranAPIBaseURL)
	hadiths := content.NewHadithClient(cfg.HadithAPIBaseURL, cfg.HadithAPIKey)

	// Usecases.
	guidanceSvc := usecase.NewGuidanceService(client, store, quotaWindow, cfg.AnalysisFreshness)
	chatSvc := usecase.NewChatService(client, store, quotaWindow, cfg.ChatHistoryWindow)
	moodSvc := usecase.NewMoodService(store)
	profileSvc := usecase.NewProfileService(store)

	redisCheck := app.BuildReadinessCheck(store)

	srv := httpserver.NewServer(cfg, guidanceSvc, chatSvc, moodSvc, profileSvc, verses, hadiths, client, quotaWindow, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
