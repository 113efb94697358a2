package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kidsbank/internal/bank"
	"kidsbank/internal/catalog"
	"kidsbank/internal/config"
	"kidsbank/internal/engine"
	"kidsbank/internal/events"
	"kidsbank/internal/store"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadServerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer st.Close()

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafka(cfg.KafkaBrokers)
		defer kp.Close()
		pub = kp
	}

	svc := bank.NewService(st, pub, catalog.Default(), logger,
		bank.WithSpeedMultiplier(cfg.SpeedMultiplier),
		bank.WithStarterBalance(engine.UnitsToMicros(cfg.StartingBalance)),
		bank.WithCatchUp(cfg.ClockCatchUp),
	)

	runOnce := strings.EqualFold(strings.TrimSpace(os.Getenv("KIDSBANK_WORKER_RUN_ONCE")), "true")
	if runOnce {
		if err := svc.TickAll(ctx, time.Now()); err != nil {
			logger.Error("tick failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed")
		return
	}

	ticker := time.NewTicker(cfg.TickEvery)
	defer ticker.Stop()

	logger.Info("worker started", "tick_every", cfg.TickEvery.String(), "speed_multiplier", cfg.SpeedMultiplier)
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return
		case <-ticker.C:
			if err := svc.TickAll(ctx, time.Now()); err != nil {
				logger.Error("tick sweep failed", "err", err)
				continue
			}
			logger.Info("tick sweep complete")
		}
	}
}

func openStore(ctx context.Context, cfg config.ServerConfig) (store.Store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite":
		return store.NewSQLite(cfg.SQLitePath)
	default:
		return store.NewMemory(), nil
	}
}
