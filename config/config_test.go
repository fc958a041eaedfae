package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "unit-test-secret-0123456789"
seating:
  timeout: 3s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("期望默认端口 8080，实际=%d", cfg.Server.Port)
	}
	if cfg.Seating.Timeout != 3*time.Second {
		t.Errorf("期望 seating.timeout=3s，实际=%s", cfg.Seating.Timeout)
	}
	if cfg.Seating.CacheTTL != 5*time.Minute {
		t.Errorf("期望默认 cache_ttl=5m，实际=%s", cfg.Seating.CacheTTL)
	}
	if cfg.Server.CORS.MaxAge != 12*time.Hour {
		t.Errorf("期望默认 cors.max_age=12h，实际=%s", cfg.Server.CORS.MaxAge)
	}
	if cfg.Log.Service != "exam-planning-api" {
		t.Errorf("期望默认 log.service=exam-planning-api，实际=%s", cfg.Log.Service)
	}
	if cfg.Server.IsHTTPS() {
		t.Error("默认 base_url 不是 https")
	}
	if cfg.MQ.Exchange != "exam.seating" {
		t.Errorf("期望默认 exchange=exam.seating，实际=%s", cfg.MQ.Exchange)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
auth:
  jwt_secret: "unit-test-secret-0123456789"
`)
	t.Setenv("EXAM_SERVER_PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("期望环境变量覆盖端口为 9100，实际=%d", cfg.Server.Port)
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 8080},
		Auth:    AuthConfig{JWTSecret: "short"},
		Seating: SeatingConfig{Timeout: time.Second},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("期望短密钥校验失败")
	}
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "unit-test-secret-0123456789"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("期望 seating.timeout=0 校验失败")
	}
}

func TestValidate_OptionalSubsystems(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Auth:    AuthConfig{JWTSecret: "unit-test-secret-0123456789"},
			Seating: SeatingConfig{Timeout: time.Second},
		}
	}

	cfg := base()
	cfg.MQ = MQConfig{Enabled: true}
	if err := cfg.Validate(); err == nil {
		t.Error("期望启用 MQ 但缺少 url 时校验失败")
	}

	cfg = base()
	cfg.Metrics = MetricsConfig{Enabled: true, Path: "metrics"}
	if err := cfg.Validate(); err == nil {
		t.Error("期望 metrics.path 不以 / 开头时校验失败")
	}

	cfg = base()
	cfg.Metrics = MetricsConfig{Enabled: true, Path: "/metrics"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("期望校验通过: %v", err)
	}
}

func TestServerConfig_IsHTTPS(t *testing.T) {
	tests := []struct {
		baseURL string
		want    bool
	}{
		{"https://exams.example.ma", true},
		{"HTTPS://exams.example.ma", true},
		{"http://localhost:8080", false},
		{"", false},
	}
	for _, tt := range tests {
		cfg := ServerConfig{BaseURL: tt.baseURL}
		if got := cfg.IsHTTPS(); got != tt.want {
			t.Errorf("IsHTTPS(%q) = %v，期望 %v", tt.baseURL, got, tt.want)
		}
	}
}
