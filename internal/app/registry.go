package app

import (
	"employee-records/internal/compensation"
	"employee-records/internal/department"
	"employee-records/internal/employee"
	"employee-records/internal/messaging/kafka"
	"employee-records/internal/position"
	"employee-records/internal/salary"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(api *gin.RouterGroup, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	outboxRepo := kafka.NewOutboxRepository(db)

	deptRepo := department.NewRepository(db)
	deptService := department.NewService(db, deptRepo, rdb, logger)
	department.RegisterRoutes(api, department.NewHandler(deptService, logger), logger)

	posRepo := position.NewRepository(db)
	posService := position.NewService(db, posRepo, rdb, logger)
	position.RegisterRoutes(api, position.NewHandler(posService, logger), logger)

	compRepo := compensation.NewRepository(db)
	compService := compensation.NewService(db, compRepo, rdb, logger)
	compensation.RegisterRoutes(api, compensation.NewHandler(compService, logger), logger)

	salaryRepo := salary.NewRepository(db)
	salaryService := salary.NewService(db, salaryRepo, compRepo, outboxRepo, logger)
	salary.RegisterRoutes(api, salary.NewHandler(salaryService, logger), logger)

	emplRepo := employee.NewRepository(db)
	emplService := employee.NewService(db, emplRepo, salaryRepo, outboxRepo, logger)
	employee.RegisterRoutes(api, employee.NewHandler(emplService, logger), logger)
}
