package main

import (
	"embed"
	"os"

	"employee-records/internal/app"
	"employee-records/internal/bootstrap"
	"employee-records/internal/shared/apperror"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func main() {
	_ = godotenv.Load()

	logger := newLogger()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	cfg := app.LoadConfig()
	application, err := app.BuildApp(cfg, logger)
	if err != nil {
		logger.Fatal("application bootstrap failed", zap.Error(err))
	}

	if err := runMigrations(application); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(application.Router, bootstrap.ServerConfig{
		Port:         cfg.HTTPPort,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, bootstrap.NewStdoutAuditLogger())
}

func runMigrations(application *app.App) error {
	sqlDB, err := application.DB.DB()
	if err != nil {
		return err
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(sqlDB, "migrations")
}

func newLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}
