package app

import (
	"employee-records/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

// BuildApp connects the backing services and wires every module onto
// the router. Redis is optional: a failed connection degrades to
// uncached reads instead of refusing to start.
func BuildApp(cfg Config, logger *zap.Logger) (*App, error) {
	db, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword,
		cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		5,
	)
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 3)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	registerModules(api, db, rdb, logger)

	return &App{
		Router: router,
		DB:     db,
		Redis:  rdb,
	}, nil
}
