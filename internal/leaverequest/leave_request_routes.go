package leaverequest

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/leave/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		requests.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		requests.PUT("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		requests.PUT("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "reject"), handler.Reject)
	}
}
