package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/config"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/repository"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/service"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/database"
	applogger "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/logger"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/metrics"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/mq"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/redis"
)

// app 命令运行期依赖
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	rdb       *redis.Client
	publisher mq.Publisher
	svc       *service.Service
}

// loadConfig 加载配置与日志（命令行默认仅输出警告以上）
func loadConfig(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logCfg := cfg.Log
	if logCfg.Level == "info" {
		logCfg.Level = "warn"
	}
	logCfg.Format = "console"
	logCfg.Service = "seatctl"

	logger, err := applogger.NewLogger(&logCfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openDB 只连接数据库（migrate 子命令使用）
func openDB(path string) (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, logger, err := loadConfig(path)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

// newApp 构建完整的 Service 聚合
// 与 HTTP 服务共用 Redis 与事件总线：CLI 写入同样会失效缓存并发布事件
func newApp(path string) (*app, error) {
	cfg, logger, db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 不可用，跳过缓存失效", zap.Error(err))
		rdb = nil
	}

	var publisher mq.Publisher = mq.NopPublisher{}
	if cfg.MQ.Enabled {
		amqpPub, err := mq.NewAMQPPublisher(cfg.MQ.URL, cfg.MQ.Exchange, logger)
		if err != nil {
			return nil, fmt.Errorf("连接 RabbitMQ 失败: %w", err)
		}
		publisher = amqpPub
	}

	repo := repository.NewRepository(db)
	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		rdb:       rdb,
		publisher: publisher,
		svc:       service.NewService(cfg, repo, rdb, publisher, metrics.Nop{}, logger),
	}, nil
}

func (a *app) Close() {
	_ = a.publisher.Close()
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
