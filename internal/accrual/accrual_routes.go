package accrual

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	accruals := r.Group("/leave/accruals")
	accruals.Use(middleware.AuthMiddleware())
	{
		accruals.GET("", middleware.RBACAuthorize(rbacService, "accrual", "read"), handler.GetMine)
	}
}
