package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"schedule-maker/config"
	"schedule-maker/internal/api/handler"
	"schedule-maker/internal/api/router"
	"schedule-maker/internal/repository"
	"schedule-maker/internal/service"
	"schedule-maker/pkg/database"
	"schedule-maker/pkg/jwt"
	applogger "schedule-maker/pkg/logger"
	"schedule-maker/pkg/redis"
)

func main() {
	// 1. 加载配置（SCHED_CONFIG_FILE 可指定配置文件路径）
	cfg, err := config.Load(os.Getenv("SCHED_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("day_order", cfg.View.DayOrder),
		zap.Strings("credential_sources", cfg.Mail.CredentialSources),
	)

	// 3. 连接数据库（可选：仅用于提醒邮件发送记录）
	var db *gorm.DB
	if cfg.Database.Enabled {
		db, err = database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}

		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
	} else {
		logger.Info("未启用数据库，不保存提醒邮件发送记录")
	}

	// 4. 连接 Redis（可选：连接失败时降级为内存会话，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，会话将保存在进程内存中，提醒接口不限流", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 初始化会话令牌管理器
	jwtMgr := jwt.NewManager(&cfg.Session)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db, rdb)
	svc, err := service.NewService(cfg, repo, jwtMgr, logger)
	if err != nil {
		logger.Fatal("初始化服务失败", zap.Error(err))
	}
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	// 写超时需覆盖一次 SMTP 发送
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Mail.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if db != nil {
		if closeDB, _ := db.DB(); closeDB != nil {
			closeDB.Close()
		}
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
