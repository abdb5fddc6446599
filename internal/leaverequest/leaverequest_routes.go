package leaverequest

import (
	"go-timeoff/internal/middleware"
	"go-timeoff/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	requests.Use(middleware.RateLimitByUser(rate.Limit(5), 10))
	{
		requests.POST("",
			middleware.RBACAuthorize(rbacService, "leave_request", "create"),
			middleware.ExtractUserID(),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		requests.GET("/my", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.ListMyRequests)
		requests.GET("/pending-approvals", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.ListPendingApprovals)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.Get)
		requests.GET("/:id/approvals", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.ListApprovals)
		requests.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.Approve)
		requests.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.Reject)
		requests.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave_request", "create"), handler.Cancel)
	}
}
