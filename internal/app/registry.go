package app

import (
	"path/filepath"

	"go-timeoff/internal/auth"
	"go-timeoff/internal/balance"
	"go-timeoff/internal/employee"
	"go-timeoff/internal/leaverequest"
	"go-timeoff/internal/messaging/kafka"
	"go-timeoff/internal/notification"
	"go-timeoff/internal/period"
	"go-timeoff/internal/rbac"
	"go-timeoff/internal/rbac/infra"
	"go-timeoff/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	directory := employee.NewDirectory(gormDB)
	periodRepo := period.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService)
	periodService := period.NewService(gormDB, periodRepo)
	ledger := balance.NewLedger(balanceRepo, periodRepo)
	notifier := notification.NewOutboxNotifier(outboxRepo)
	notificationService := notification.NewService(notificationRepo)
	leaveRequestService := leaverequest.NewService(
		gormDB,
		leaveRequestRepo,
		ledger,
		periodRepo,
		directory,
		counterRepo,
		notifier,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	periodHandler := period.NewHandler(periodService)
	balanceHandler := balance.NewHandlerWithRedis(ledger, rdb)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService, rdb)
	notificationHandler := notification.NewHandler(notificationService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		period.RegisterRoutes(api, periodHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService, rdb)
		notification.RegisterRoutes(api, notificationHandler)
	}

	return nil
}
