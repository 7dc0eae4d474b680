package position

import (
	"employee-records/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	positions := r.Group("/positions")
	positions.Use(middleware.AuthMiddleware())
	positions.Use(middleware.ContextLogger(logger))
	{
		positions.GET("",
			middleware.RateLimitByUser(5, 20),
			handler.GetAll,
		)

		positions.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByID,
		)

		positions.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RoleMiddleware("admin"),
			handler.Create,
		)

		positions.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RoleMiddleware("admin"),
			handler.Update,
		)

		positions.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RoleMiddleware("admin"),
			handler.Delete,
		)
	}
}
