package balance

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	leave := r.Group("/leave")
	leave.Use(middleware.AuthMiddleware())
	{
		leave.GET("/balance", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetMine)
		leave.GET("/balance/:userId",
			middleware.RBACAuthorize(rbacService, "balance", "read"),
			middleware.RoleMiddleware(user.RoleManager, user.RoleAdmin),
			handler.GetForUser,
		)
	}
}
