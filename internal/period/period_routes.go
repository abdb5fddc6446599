package period

import (
	"go-timeoff/internal/middleware"
	"go-timeoff/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	periods := r.Group("/leave-periods")
	periods.Use(middleware.AuthMiddleware())
	{
		periods.GET("", middleware.RBACAuthorize(rbacService, "leave_period", "read"), handler.ListPeriods)
		periods.GET("/active", middleware.RBACAuthorize(rbacService, "leave_period", "read"), handler.ActivePeriod)
		periods.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_period", "read"), handler.GetPeriod)
		periods.GET("/:id/type-configs", middleware.RBACAuthorize(rbacService, "leave_period", "read"), handler.ListTypeConfigs)
		periods.POST("", middleware.RBACAuthorize(rbacService, "leave_period", "manage"), handler.CreatePeriod)
	}

	configs := r.Group("/leave-type-configs")
	configs.Use(middleware.AuthMiddleware())
	{
		configs.POST("", middleware.RBACAuthorize(rbacService, "leave_period", "manage"), handler.CreateTypeConfig)
		configs.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_period", "manage"), handler.UpdateTypeConfig)
	}
}
