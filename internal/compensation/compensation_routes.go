package compensation

import (
	"employee-records/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	compensations := r.Group("/compensations")
	compensations.Use(middleware.AuthMiddleware())
	compensations.Use(middleware.ContextLogger(logger))
	{
		compensations.GET("",
			middleware.RateLimitByUser(5, 20),
			handler.GetAll,
		)

		compensations.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RoleMiddleware("admin"),
			handler.Create,
		)
	}
}
