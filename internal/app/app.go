package app

import (
	"context"
	"go-leave/internal/accrual"
	"go-leave/internal/balance"
	"go-leave/internal/leaverequest"
	"go-leave/internal/leavetype"
	"go-leave/internal/shared/connection"
	"go-leave/internal/user"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
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
	zap.L().Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := migrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		zap.L().Warn("redis unavailable, caching and idempotency disabled", zap.Error(err))
		redisClient = nil
	} else {
		zap.L().Info("redis connection established")
	}

	return registerModules(router, sqlDB, gormDB, redisClient)
}

// outbox_events is written with raw SQL by the outbox repository, so
// its schema lives here rather than in a gorm model.
const outboxTableDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id TEXT,
	aggregate_type TEXT NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type TEXT NOT NULL,
	topic TEXT NOT NULL,
	payload JSONB NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message TEXT,
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.Exec(outboxTableDDL).Error; err != nil {
		return err
	}

	if err := gormDB.AutoMigrate(
		&user.User{},
		&leavetype.LeaveType{},
		&balance.LeaveBalance{},
		&accrual.AccrualEntry{},
		&leaverequest.LeaveRequest{},
	); err != nil {
		return err
	}

	typeRepo := leavetype.NewRepository(gormDB)
	return leavetype.EnsureDefaults(context.Background(), typeRepo)
}
