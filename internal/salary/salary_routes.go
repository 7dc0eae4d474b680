package salary

import (
	"employee-records/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	salaries := r.Group("/salaries")
	salaries.Use(middleware.AuthMiddleware())
	salaries.Use(middleware.ContextLogger(logger))
	{
		salaries.GET("",
			middleware.RateLimitByUser(5, 20),
			handler.List,
		)

		salaries.GET("/export",
			middleware.RateLimitByUser(0.2, 1),
			handler.Export,
		)
	}

	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.PUT("/:id/salary",
			middleware.RateLimitByUser(1, 5),
			middleware.RoleMiddleware("admin", "hr"),
			handler.Replace,
		)
	}
}
