package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/brightpaw/booking-inbox/internal/api/router"
	"github.com/brightpaw/booking-inbox/internal/bookings"
	"github.com/brightpaw/booking-inbox/internal/calendar"
	appconfig "github.com/brightpaw/booking-inbox/internal/config"
	"github.com/brightpaw/booking-inbox/internal/events"
	"github.com/brightpaw/booking-inbox/internal/http/handlers"
	"github.com/brightpaw/booking-inbox/internal/intake"
	"github.com/brightpaw/booking-inbox/internal/notify"
	"github.com/brightpaw/booking-inbox/internal/observability/metrics"
	"github.com/brightpaw/booking-inbox/internal/oracle"
	"github.com/brightpaw/booking-inbox/internal/store"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-inbox API server", "env", cfg.Env, "port", cfg.Port)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC", "timezone", cfg.Timezone)
		location = time.UTC
	}

	registry := prometheus.NewRegistry()
	intakeMetrics := metrics.NewIntakeMetrics(registry)

	st := store.New(pool)

	var classifier oracle.Oracle
	if cfg.GeminiAPIKey != "" {
		gem, err := oracle.NewGeminiOracle(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to init gemini oracle", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gem.Close() }()
		classifier = gem
	}

	orch := intake.NewOrchestrator(intake.OrchestratorConfig{
		Records:           st,
		Oracle:            classifier,
		Metrics:           intakeMetrics,
		Logger:            logger,
		Location:          location,
		LookbackDays:      cfg.LookbackDays,
		SegmentWindowDays: cfg.SegmentWindowDays,
		DateTolerance:     time.Duration(cfg.DateToleranceSec) * time.Second,
		BodyMaxLen:        cfg.BodyMaxLen,
		RequireKeywords:   cfg.RequireKeywords,
		OracleMinScore:    cfg.OracleMinScore,
	})

	var cal calendar.Service
	if cfg.GoogleCalendarID != "" && cfg.GoogleCredentialsFile != "" {
		gcal, err := calendar.NewGoogleService(ctx, cfg.GoogleCalendarID, cfg.GoogleCredentialsFile, logger)
		if err != nil {
			logger.Error("failed to init google calendar", "error", err)
			os.Exit(1)
		}
		cal = gcal
	}
	bookingSvc := bookings.NewService(st, cal, logger).
		WithPublishOnConfirm(cfg.CalendarPublishOnConfirm)

	var locker intake.Locker
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		locker = intake.NewRedisLocker(rdb)
	}
	reparser := intake.NewReparser(st, orch, locker, logger, cfg.ReparseLockTTL)

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	}
	notifier := notify.NewService(sender, splitRecipients(cfg.NotifyRecipients), logger)

	deliverer := events.NewDeliverer(events.NewOutboxStore(pool), notifier, logger)
	go deliverer.Start(ctx)
	go bookingSvc.RunArchiveSweep(ctx, cfg.ArchiveSweepEvery, cfg.ArchiveGrace)

	r := router.New(router.Config{
		Webhooks: handlers.NewWebhookHandler(handlers.WebhookConfig{
			Orchestrator: orch,
			Token:        cfg.WebhookToken,
			Logger:       logger,
			Metrics:      intakeMetrics,
		}),
		Admin: handlers.NewAdminHandler(handlers.AdminConfig{
			Store:    st,
			Bookings: bookingSvc,
			Reparser: reparser,
			Logger:   logger,
		}),
		AdminToken:     cfg.AdminToken,
		AllowedOrigins: splitRecipients(cfg.AllowedOrigins),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:         logger,
		WebhookRate:    cfg.WebhookRate,
		WebhookBurst:   cfg.WebhookBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func splitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
