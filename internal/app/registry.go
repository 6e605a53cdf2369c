package app

import (
	"database/sql"
	"go-leave/internal/accrual"
	"go-leave/internal/balance"
	"go-leave/internal/document"
	"go-leave/internal/leaverequest"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/user"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	typeRepo := leavetype.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	accrualRepo := accrual.NewRepository(gormDB)
	requestRepo := leaverequest.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Document Store ---
	documentDir := os.Getenv("DOCUMENT_DIR")
	if documentDir == "" {
		documentDir = "./documents"
	}
	documentStore, err := document.NewDiskStore(documentDir, "/documents")
	if err != nil {
		return err
	}

	// --- Services ---
	typeService := leavetype.NewService(typeRepo)
	balanceService := balance.NewService(db, balanceRepo, typeRepo, rdb)
	requestValidator := leaverequest.NewValidator(typeRepo, balanceRepo)
	requestService := leaverequest.NewService(
		db,
		requestRepo,
		requestValidator,
		balanceService,
		userRepo,
		documentStore,
		outboxRepo,
	)

	// --- Handlers ---
	typeHandler := leavetype.NewHandler(typeService)
	balanceHandler := balance.NewHandler(balanceService)
	accrualHandler := accrual.NewHandler(accrualRepo)
	requestHandler := leaverequest.NewHandlerWithRedis(requestService, rdb)

	router.Use(middleware.ContextLogger(zap.L()))
	router.Static("/documents", documentDir)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leavetype.RegisterRoutes(api, typeHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		accrual.RegisterRoutes(api, accrualHandler, rbacService)
		leaverequest.RegisterRoutes(api, requestHandler, rbacService, rdb)
	}

	return nil
}
