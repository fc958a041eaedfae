package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/config"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/api/handler"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/api/middleware"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/jwt"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/metrics"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/redis"
)

// 写接口限流：每个调用者每分钟每条路由
const (
	writeRateLimit  = 60
	writeRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	collector metrics.Collector,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.SecurityHeaders(cfg.Server.IsHTTPS()))
	r.Use(middleware.CORS(cfg.Server.CORS))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	writeLimit := middleware.RateLimit(rdb, writeRateLimit, writeRateWindow, logger)
	planners := middleware.RoleAuth(middleware.RoleAdmin, middleware.RolePlanner)
	admins := middleware.RoleAuth(middleware.RoleAdmin)

	// ── API v1（全部需要认证） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 教室模块
		classrooms := v1.Group("/classrooms")
		{
			classrooms.GET("", h.Classroom.List)
			classrooms.GET("/:id", h.Classroom.Get)
			classrooms.POST("", admins, h.Classroom.Create)
			classrooms.PUT("/:id", admins, h.Classroom.Update)
			classrooms.DELETE("/:id", admins, h.Classroom.Delete)
		}

		// 学生 / 竞赛考生模块
		students := v1.Group("/students")
		{
			students.GET("", h.Student.List)
			students.GET("/:id", h.Student.Get)
			students.POST("", planners, h.Student.Create)
		}
		candidates := v1.Group("/candidates")
		{
			candidates.GET("", h.Candidate.List)
			candidates.GET("/:id", h.Candidate.Get)
			candidates.POST("", planners, h.Candidate.Create)
		}

		// 考试模块（含座位分配与导出）
		exams := v1.Group("/exams")
		{
			exams.GET("", h.Exam.List)
			exams.GET("/:id", h.Exam.Get)
			exams.POST("", planners, h.Exam.Create)
			exams.PUT("/:id", planners, h.Exam.Update)
			exams.DELETE("/:id", admins, h.Exam.Delete)

			exams.GET("/:id/seating", h.Seating.GetExam)
			exams.POST("/:id/seating", planners, writeLimit, h.Seating.AssignExam)
			exams.DELETE("/:id/seating", planners, writeLimit, h.Seating.ClearExam)
			exams.GET("/:id/seating/export", h.Export.ExamSeating)
			exams.GET("/:id/calendar.ics", h.Export.ExamCalendar)
		}

		// 竞赛模块（含座位分配与导出）
		concours := v1.Group("/concours")
		{
			concours.GET("", h.Concours.List)
			concours.GET("/:id", h.Concours.Get)
			concours.POST("", planners, h.Concours.Create)
			concours.PUT("/:id", planners, h.Concours.Update)
			concours.DELETE("/:id", admins, h.Concours.Delete)

			concours.GET("/:id/seating", h.Seating.GetConcours)
			concours.POST("/:id/seating", planners, writeLimit, h.Seating.AssignConcours)
			concours.DELETE("/:id/seating", planners, writeLimit, h.Seating.ClearConcours)
			concours.GET("/:id/seating/export", h.Export.ConcoursSeating)
			concours.GET("/:id/calendar.ics", h.Export.ConcoursCalendar)
		}
	}

	return r
}
