package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/config"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/api/handler"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/api/router"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/repository"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/service"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/database"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/jwt"
	applogger "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/logger"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/metrics"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/mq"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认 ./config/config.yaml）")
	flag.Parse()

	// 0. 加载 .env（不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
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
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，关闭读缓存与限流）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，座位分配缓存与限流将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 事件发布（可选）
	var publisher mq.Publisher = mq.NopPublisher{}
	if cfg.MQ.Enabled {
		amqpPub, err := mq.NewAMQPPublisher(cfg.MQ.URL, cfg.MQ.Exchange, logger)
		if err != nil {
			logger.Warn("RabbitMQ 连接失败，座位分配事件将不会发布", zap.Error(err))
		} else {
			publisher = amqpPub
		}
	}

	// 6. 指标
	var collector metrics.Collector = metrics.Nop{}
	if cfg.Metrics.Enabled {
		collector = metrics.NewPrometheus(nil, cfg.Metrics.Namespace)
	}

	// 7. 初始化 JWT 校验器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 8. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, rdb, publisher, collector, logger)
	h := handler.NewHandler(svc)

	// 9. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, collector, logger)

	// 10. 启动 HTTP 服务器（优雅关闭）
	// WriteTimeout 留出座位分配期限之外的余量
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Seating.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := publisher.Close(); err != nil {
		logger.Warn("关闭事件发布器失败", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("服务器已关闭")
}
