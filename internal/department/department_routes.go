package department

import (
	"employee-records/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware())
	departments.Use(middleware.ContextLogger(logger))
	{
		departments.GET("",
			middleware.RateLimitByUser(5, 20),
			handler.GetAll,
		)

		departments.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByID,
		)

		departments.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RoleMiddleware("admin"),
			handler.Create,
		)

		departments.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RoleMiddleware("admin"),
			handler.Update,
		)

		departments.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RoleMiddleware("admin"),
			handler.Delete,
		)
	}
}
