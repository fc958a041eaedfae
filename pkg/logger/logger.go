package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/config"
)

// defaultService 未配置 log.service 时使用
const defaultService = "exam-planning"

// NewLogger 根据配置初始化 Zap 日志实例
// format=console 时为彩色开发格式，其余为 JSON；所有日志附带 service 字段
// opts 先于 service 字段应用
func NewLogger(cfg *config.LogConfig, opts ...zap.Option) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "time"
	}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// JSON 模式不输出调用栈
	zapCfg.DisableStacktrace = cfg.Format != "console"

	// 解析日志级别
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	service := cfg.Service
	if service == "" {
		service = defaultService
	}

	opts = append(opts, zap.Fields(zap.String("service", service)))
	logger, err := zapCfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("初始化日志器失败: %w", err)
	}

	return logger, nil
}
