package main

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/moviemates/moviemates/config"
	"github.com/moviemates/moviemates/internal/app"
	"github.com/moviemates/moviemates/internal/cache"
	"github.com/moviemates/moviemates/internal/handler"
	"github.com/moviemates/moviemates/internal/model"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := model.Migrate(db); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	redisCache, err := cache.NewRedisCache(cfg.CacheURL)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	application := app.New(cfg, db, redisCache, logger)
	defer application.Close()

	router := handler.NewRouter(application.Services(), logger)

	logger.Info("server starting", zap.String("addr", cfg.Addr))
	if err := router.Run(cfg.Addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
