package service

import (
	"net/url"

	"go.uber.org/zap"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/config"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/repository"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/metrics"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/mq"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Seating   SeatingService
	Classroom ClassroomService
	Exam      ExamService
	Concours  ConcoursService
	Student   StudentService
	Candidate CandidateService
	Export    ExportService
	Calendar  CalendarService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时关闭读缓存；publisher / collector 未启用时传入 Nop 实现
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	publisher mq.Publisher,
	collector metrics.Collector,
	logger *zap.Logger,
) *Service {
	cache := NewSeatingCache(rdb, cfg.Seating.CacheTTL, collector, logger)

	seating := NewSeatingService(repo, cache, publisher, collector, cfg.Seating.Timeout, logger)
	exam := NewExamService(repo, cache, logger)
	concours := NewConcoursService(repo, cache, logger)

	return &Service{
		Seating:   seating,
		Classroom: NewClassroomService(repo, cache, logger),
		Exam:      exam,
		Concours:  concours,
		Student:   NewStudentService(repo, logger),
		Candidate: NewCandidateService(repo, logger),
		Export:    NewExportService(seating, exam, concours, logger),
		Calendar:  NewCalendarService(seating, exam, concours, calendarHost(cfg.Server.BaseURL), logger),
	}
}

func calendarHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return u.Hostname()
}
