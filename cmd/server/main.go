package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/logger"
	"github.com/inkwell/internal/router"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(os.Getenv("LOG_LEVEL")); err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.L.Fatal("failed to initialize database", zap.Error(err))
	}

	// 未接入身份提供方时的超级管理员兜底账号
	if err := db.EnsureRootUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		logger.L.Fatal("failed to ensure root user", zap.Error(err))
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, cfg)
	logger.L.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.L.Fatal("failed to run server", zap.Error(err))
	}
}
