// Command reparse runs one reconciliation pass over stored messages, for use
// from cron or an operator shell.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/brightpaw/booking-inbox/internal/config"
	"github.com/brightpaw/booking-inbox/internal/intake"
	"github.com/brightpaw/booking-inbox/internal/store"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

func main() {
	lookback := flag.Int("lookback-days", 0, "how far back to scan (default from REPARSE_LOOKBACK_DAYS)")
	onlyUnlinked := flag.Bool("only-unlinked", false, "scan only messages without a booking link")
	flag.Parse()

	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		location = time.UTC
	}

	st := store.New(pool)
	orch := intake.NewOrchestrator(intake.OrchestratorConfig{
		Records:           st,
		Logger:            logger,
		Location:          location,
		LookbackDays:      cfg.LookbackDays,
		SegmentWindowDays: cfg.SegmentWindowDays,
		DateTolerance:     time.Duration(cfg.DateToleranceSec) * time.Second,
		BodyMaxLen:        cfg.BodyMaxLen,
		RequireKeywords:   cfg.RequireKeywords,
	})

	var locker intake.Locker
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		locker = intake.NewRedisLocker(rdb)
	}

	days := *lookback
	if days <= 0 {
		days = cfg.ReparseLookbackDays
	}

	reparser := intake.NewReparser(st, orch, locker, logger, cfg.ReparseLockTTL)
	summary, err := reparser.Run(ctx, intake.ReparseOptions{
		LookbackDays: days,
		OnlyUnlinked: *onlyUnlinked,
	})
	if err != nil {
		logger.Error("reparse failed", "error", err)
		os.Exit(1)
	}

	logger.Info("reparse finished",
		"scanned", summary.Scanned,
		"updated", summary.Updated,
		"created", summary.Created,
		"linked", summary.Linked,
		"skipped", summary.Skipped)
}
