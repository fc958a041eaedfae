package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/config"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		format string
		level  string
		want   zapcore.Level
	}{
		{"json", "info", zapcore.InfoLevel},
		{"console", "debug", zapcore.DebugLevel},
		{"json", "warn", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		logger, err := NewLogger(&config.LogConfig{Level: tt.level, Format: tt.format})
		if err != nil {
			t.Fatalf("NewLogger(%s,%s) 应成功: %v", tt.format, tt.level, err)
		}
		if !logger.Core().Enabled(tt.want) {
			t.Errorf("级别 %s 应启用", tt.want)
		}
		if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
			t.Errorf("级别 %s 不应启用", tt.want-1)
		}
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("期望无效日志级别报错")
	}
}

func TestNewLogger_ServiceField(t *testing.T) {
	tests := []struct {
		service string
		want    string
	}{
		{"seatctl", "seatctl"},
		{"", defaultService},
	}

	for _, tt := range tests {
		core, logs := observer.New(zapcore.InfoLevel)
		logger, err := NewLogger(
			&config.LogConfig{Level: "info", Format: "json", Service: tt.service},
			zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }),
		)
		if err != nil {
			t.Fatalf("NewLogger 应成功: %v", err)
		}
		logger.Info("座位分配完成")

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("期望 1 条日志，实际=%d", len(entries))
		}
		if got := entries[0].ContextMap()["service"]; got != tt.want {
			t.Errorf("期望 service=%s，实际=%v", tt.want, got)
		}
	}
}
