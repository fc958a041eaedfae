package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/config"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/jwt"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/redis"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{JWTSecret: "middleware-test-secret", Issuer: "exam-planning"})
}

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code, body.Message
}

// ── JWTAuth / RoleAuth ──

func TestJWTAuth(t *testing.T) {
	mgr := newTestJWT()
	valid, err := mgr.Issue("u-1", RolePlanner, time.Hour)
	require.NoError(t, err)
	expired, err := mgr.Issue("u-1", RolePlanner, -time.Minute)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", JWTAuth(mgr), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID)+"/"+c.GetString(ContextRole))
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{name: "缺少认证头", header: "", status: http.StatusUnauthorized, message: "缺少认证头"},
		{name: "格式错误", header: "Token " + valid, status: http.StatusUnauthorized, message: "认证头格式无效"},
		{name: "签名错误", header: "Bearer " + valid + "x", status: http.StatusUnauthorized, message: "Token 无效"},
		{name: "已过期", header: "Bearer " + expired, status: http.StatusUnauthorized, message: "Token 已过期"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			code, msg := decodeCode(t, w)
			assert.Equal(t, response.CodeUnauthorized, code)
			assert.Equal(t, tt.message, msg)
		})
	}

	t.Run("通过", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "bearer "+valid)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-1/planner", w.Body.String())
	})
}

func TestRoleAuth(t *testing.T) {
	serve := func(role string) *httptest.ResponseRecorder {
		r := gin.New()
		r.POST("/write", func(c *gin.Context) {
			if role != "" {
				c.Set(ContextRole, role)
			}
			c.Next()
		}, RoleAuth(RoleAdmin, RolePlanner), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
		return w
	}

	assert.Equal(t, http.StatusNoContent, serve(RolePlanner).Code)
	assert.Equal(t, http.StatusNoContent, serve(RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, serve(RoleViewer).Code)
	assert.Equal(t, http.StatusUnauthorized, serve("").Code)
}

// ── RequestID ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("沿用请求头", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("过长时重新生成", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("x", requestIDMaxLen+1))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		rid := w.Header().Get("X-Request-ID")
		assert.Len(t, rid, 36)
		assert.Equal(t, rid, w.Body.String())
	})
}

// ── BodyLimit ──

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if IsBodyTooLarge(err) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("声明长度超限", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		code, _ := decodeCode(t, w)
		assert.Equal(t, response.CodeBodyTooLarge, code)
	})

	t.Run("未声明长度读取时截断", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("未超限", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok")))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// ── SecurityHeaders ──

func TestSecurityHeaders(t *testing.T) {
	serve := func(hsts bool) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(SecurityHeaders(hsts))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w
	}

	w := serve(false)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "same-site", w.Header().Get("Cross-Origin-Resource-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	w = serve(true)
	assert.Equal(t, hstsValue, w.Header().Get("Strict-Transport-Security"))
}

// ── CORS ──

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{AllowOrigins: []string{"https://planning.example.ma/"}, MaxAge: time.Hour}))
	r.GET("/api/v1/exams/1/seating/export", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve := func(method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/v1/exams/1/seating/export", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("白名单预检", func(t *testing.T) {
		w := serve(http.MethodOptions, "https://planning.example.ma")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://planning.example.ma", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	})

	t.Run("白名单外预检被拒绝", func(t *testing.T) {
		w := serve(http.MethodOptions, "https://evil.example.com")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("导出下载暴露文件名头", func(t *testing.T) {
		w := serve(http.MethodGet, "https://planning.example.ma")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("同源请求不回写跨域头", func(t *testing.T) {
		w := serve(http.MethodGet, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

// ── RateLimit ──

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.PUT("/exams/:id/seating", func(c *gin.Context) {
		c.Set(ContextUserID, c.GetHeader("X-Test-User"))
		c.Next()
	}, RateLimit(rdb, 2, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	serve := func(user, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, path, nil)
		req.Header.Set("X-Test-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, serve("u-1", "/exams/1/seating").Code)
	// 按路由模板计数，不同考试共享同一额度
	assert.Equal(t, http.StatusOK, serve("u-1", "/exams/2/seating").Code)

	w := serve("u-1", "/exams/3/seating")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	code, _ := decodeCode(t, w)
	assert.Equal(t, response.CodeTooManyRequests, code)

	assert.Equal(t, http.StatusOK, serve("u-2", "/exams/1/seating").Code)

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, serve("u-1", "/exams/1/seating").Code)

	t.Run("Redis 不可用时放行", func(t *testing.T) {
		mr.Close()
		assert.Equal(t, http.StatusOK, serve("u-1", "/exams/1/seating").Code)
	})
}
