package app

import (
	"context"
	"fmt"
	"go-leave/internal/accrual"
	"go-leave/internal/balance"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/shared/connection"
	"go-leave/internal/user"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const accrualCheckInterval = 6 * time.Hour

func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		logger.Warn("redis unavailable, cache invalidation disabled", zap.Error(err))
		redisClient = nil
	}

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	engine := accrual.NewEngine(
		sqlDB,
		accrual.NewRepository(gormDB),
		balance.NewRepository(gormDB),
		leavetype.NewRepository(gormDB),
		user.NewRepository(gormDB),
		redisClient,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runAccrualScheduler(ctx, engine, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

// runAccrualScheduler triggers the monthly run and the expiry sweep.
// RunMonthly is idempotent per period, so firing it every interval is
// safe; only the first tick of a new month grants anything.
func runAccrualScheduler(ctx context.Context, engine accrual.Engine, logger *zap.Logger) {
	log := logger.Named("accrual.scheduler")

	run := func() {
		now := time.Now().UTC()
		if _, err := engine.ExpireOutdated(ctx, now); err != nil {
			log.Error("expiry sweep failed", zap.Error(err))
		}
		if err := engine.RunMonthly(ctx, now); err != nil {
			log.Error("monthly accrual run failed", zap.Error(err))
		}
	}

	run()

	ticker := time.NewTicker(accrualCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("accrual scheduler stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
